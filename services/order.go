package services

import (
	"context"
	"log"
	"strings"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/notify"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgOrderNotFound   = "order not found"
	msgNoValidProducts = "no valid products in order"
)

type OrderService struct {
	db       *gorm.DB
	notifier notify.Notifier
}

// NewOrderService creates the order engine. notifier may be nil.
func NewOrderService(db *gorm.DB, notifier notify.Notifier) *OrderService {
	return &OrderService{db: db, notifier: notifier}
}

type orderLine struct {
	product  models.Product
	quantity int
}

// mergeLines validates the request lines and sums quantities of repeated
// products, keeping first-seen order.
func mergeLines(lines []models.OrderLine) ([]models.OrderLine, error) {
	if len(lines) == 0 {
		return nil, utils.Validation("order must contain at least one product",
			utils.FieldError{Field: "products", Message: "must not be empty"})
	}

	index := make(map[uint]int, len(lines))
	merged := make([]models.OrderLine, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == 0 || line.Quantity < 1 {
			return nil, utils.Validation("every order line needs a product and a quantity of at least 1",
				utils.FieldError{Field: "products", Message: "invalid product_id or quantity"})
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}

// PlaceOrder creates the order, its items and the stock decrements in one
// transaction. Either all of them are written or none.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, data models.CreateOrderData) (*models.OrderView, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		return nil, lookupError(err, msgUserNotFound)
	}

	address := strings.TrimSpace(data.Address)
	phone := strings.TrimSpace(data.PhoneNumber)
	var fields []utils.FieldError
	if address == "" {
		fields = append(fields, utils.FieldError{Field: "address", Message: "address is required"})
	}
	if phone == "" {
		fields = append(fields, utils.FieldError{Field: "phone_number", Message: "phone number is required"})
	}
	if len(fields) > 0 {
		return nil, utils.Validation("address and phone number are required", fields...)
	}

	requested, err := mergeLines(data.Products)
	if err != nil {
		return nil, err
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(requested))
		for _, line := range requested {
			ids = append(ids, line.ProductID)
		}

		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		lines := make([]orderLine, 0, len(requested))
		for _, req := range requested {
			product, ok := byID[req.ProductID]
			if !ok {
				log.Printf("Order for user %d: product %d not found, skipping", userID, req.ProductID)
				continue
			}
			lines = append(lines, orderLine{product: product, quantity: req.Quantity})
		}
		if len(lines) == 0 {
			return utils.Validation(msgNoValidProducts)
		}

		total := decimal.Zero
		for _, line := range lines {
			if line.product.StockQuantity < line.quantity {
				return &utils.InsufficientStockError{
					ProductID: line.product.ID,
					Name:      line.product.Name,
					Requested: line.quantity,
					Available: line.product.StockQuantity,
				}
			}
			total = total.Add(line.product.Price.Mul(decimal.NewFromInt(int64(line.quantity))))
		}

		order = models.Order{
			UserID:      userID,
			TotalPrice:  total,
			Status:      models.OrderStatusPlaced,
			Address:     address,
			PhoneNumber: phone,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if err := decrementStock(tx, line); err != nil {
				return err
			}
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.product.ID,
				Quantity:  line.quantity,
				Price:     line.product.Price,
			})
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, passThrough(err)
	}

	view, err := s.loadOrder(ctx, order.ID, false)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		event := notify.OrderPlaced(view)
		go func() {
			if err := s.notifier.Notify(context.Background(), event); err != nil {
				log.Printf("Order %d notification failed: %v", event.Order.ID, err)
			}
		}()
	}
	return view, nil
}

// decrementStock only succeeds while enough stock is left, so two
// transactions cannot both take the last units.
func decrementStock(tx *gorm.DB, line orderLine) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", line.product.ID, line.quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var current models.Product
	if err := tx.Select("id", "stock_quantity").First(&current, line.product.ID).Error; err != nil {
		return err
	}
	return &utils.InsufficientStockError{
		ProductID: line.product.ID,
		Name:      line.product.Name,
		Requested: line.quantity,
		Available: current.StockQuantity,
	}
}

func (s *OrderService) MyOrders(ctx context.Context, userID uint) ([]models.OrderView, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	views, err := orderViews(s.db.WithContext(ctx), orders, false)
	if err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return views, nil
}

// OrderDetails returns the order only when it belongs to userID.
func (s *OrderService) OrderDetails(ctx context.Context, userID, orderID uint) (*models.OrderView, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return nil, lookupError(err, msgOrderNotFound)
	}
	return s.loadOrder(ctx, order.ID, true)
}

func (s *OrderService) AllOrders(ctx context.Context) ([]models.OrderView, error) {
	var orders []models.Order
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	views, err := orderViews(s.db.WithContext(ctx), orders, true)
	if err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return views, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, utils.Validation("status is required", utils.FieldError{Field: "status", Message: "must not be empty"})
	}
	if !knownStatus(status) {
		log.Printf("Order %d: setting unrecognised status %q", orderID, status)
	}

	db := s.db.WithContext(ctx)
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, lookupError(err, msgOrderNotFound)
	}
	if err := db.Model(&order).Update("status", status).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return &order, nil
}

func knownStatus(status string) bool {
	for _, s := range models.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *OrderService) loadOrder(ctx context.Context, orderID uint, withUser bool) (*models.OrderView, error) {
	db := s.db.WithContext(ctx)
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, lookupError(err, msgOrderNotFound)
	}
	views, err := orderViews(db, []models.Order{order}, withUser)
	if err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	return &views[0], nil
}

// orderViews attaches line items, product summaries and optionally the
// buyer to each order using one query per table.
func orderViews(db *gorm.DB, orders []models.Order, withUser bool) ([]models.OrderView, error) {
	views := make([]models.OrderView, 0, len(orders))
	if len(orders) == 0 {
		return views, nil
	}

	orderIDs := make([]uint, 0, len(orders))
	userIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		userIDs = append(userIDs, o.UserID)
	}

	var items []models.OrderItem
	if err := db.Where("order_id IN ?", orderIDs).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	productIDs := make([]uint, 0, len(items))
	itemsByOrder := make(map[uint][]models.OrderItem, len(orders))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	products, err := productSummaries(db, uniqueIDs(productIDs))
	if err != nil {
		return nil, err
	}

	users := map[uint]*models.UserSummary{}
	if withUser {
		var rows []models.User
		if err := db.Select("id", "name", "email").Where("id IN ?", uniqueIDs(userIDs)).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, u := range rows {
			users[u.ID] = &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
		}
	}

	for _, o := range orders {
		view := models.OrderView{Order: o, User: users[o.UserID], Items: []models.OrderItemView{}}
		for _, item := range itemsByOrder[o.ID] {
			view.Items = append(view.Items, models.OrderItemView{OrderItem: item, Product: products[item.ProductID]})
		}
		views = append(views, view)
	}
	return views, nil
}
