package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/notify"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderFor(address string, lines ...models.OrderLine) models.CreateOrderData {
	return models.CreateOrderData{Address: address, PhoneNumber: "+7 900 000", Products: lines}
}

func TestPlaceOrderDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db, nil)
	alice := seedUser(t, db, "a@x.io", models.RoleUser)
	chair := seedProduct(t, db, "chair", "49.90", 5)
	table := seedProduct(t, db, "table", "120.00", 3)

	view, err := orders.PlaceOrder(ctx, alice.ID, orderFor("Main st 1",
		models.OrderLine{ProductID: chair.ID, Quantity: 2},
		models.OrderLine{ProductID: table.ID, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPlaced, view.Status)
	assert.Equal(t, "219.8", view.TotalPrice.String())
	require.Len(t, view.Items, 2)
	assert.Equal(t, "49.9", view.Items[0].Price.String())
	require.NotNil(t, view.Items[0].Product)
	assert.Equal(t, 3, view.Items[0].Product.StockQuantity)

	assert.Equal(t, 3, stockOf(t, db, chair.ID))
	assert.Equal(t, 2, stockOf(t, db, table.ID))
}

func TestPlaceOrderInsufficientStockLeavesNoTrace(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db, nil)
	alice := seedUser(t, db, "a@x.io", models.RoleUser)
	chair := seedProduct(t, db, "chair", "49.90", 5)
	table := seedProduct(t, db, "table", "120.00", 1)

	_, err := orders.PlaceOrder(ctx, alice.ID, orderFor("Main st 1",
		models.OrderLine{ProductID: chair.ID, Quantity: 2},
		models.OrderLine{ProductID: table.ID, Quantity: 2},
	))

	var stockErr *utils.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, table.ID, stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 400, utils.HTTPStatus(err))

	assert.Equal(t, 5, stockOf(t, db, chair.ID))
	assert.Equal(t, 1, stockOf(t, db, table.ID))
	assert.Zero(t, countRows(t, db, &models.Order{}))
	assert.Zero(t, countRows(t, db, &models.OrderItem{}))
}

func TestPlaceOrderPriceSnapshot(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db, nil)
	alice := seedUser(t, db, "a@x.io", models.RoleUser)
	chair := seedProduct(t, db, "chair", "10.00", 5)

	placed, err := orders.PlaceOrder(ctx, alice.ID, orderFor("Main st 1", models.OrderLine{ProductID: chair.ID, Quantity: 1}))
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", chair.ID).Update("price", "99.00").Error)

	view, err := orders.OrderDetails(ctx, alice.ID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "10", view.Items[0].Price.String())
	assert.Equal(t, "99", view.Items[0].Product.Price.String())
	require.NotNil(t, view.User)
	assert.Equal(t, "a@x.io", view.User.Email)
}

func TestPlaceOrderMergesDuplicatesAndSkipsUnknown(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db, nil)
	alice := seedUser(t, db, "a@x.io", models.RoleUser)
	chair := seedProduct(t, db, "chair", "10.00", 5)

	view, err := orders.PlaceOrder(ctx, alice.ID, orderFor("Main st 1",
		models.OrderLine{ProductID: chair.ID, Quantity: 2},
		models.OrderLine{ProductID: 404, Quantity: 1},
		models.OrderLine{ProductID: chair.ID, Quantity: 1},
	))
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, "30", view.TotalPrice.String())
	assert.Equal(t, 2, stockOf(t, db, chair.ID))

	_, err = orders.PlaceOrder(ctx, alice.ID, orderFor("Main st 1", models.OrderLine{ProductID: 404, Quantity: 1}))
	assert.Equal(t, 400, utils.HTTPStatus(err))
	assert.EqualValues(t, 1, countRows(t, db, &models.Order{}))
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db, nil)
	alice := seedUser(t, db, "a@x.io", models.RoleUser)
	chair := seedProduct(t, db, "chair", "10.00", 5)

	cases := []struct {
		name string
		data models.CreateOrderData
	}{
		{"missing address", orderFor(" ", models.OrderLine{ProductID: chair.ID, Quantity: 1})},
		{"missing phone", models.CreateOrderData{Address: "x", Products: []models.OrderLine{{ProductID: chair.ID, Quantity: 1}}}},
		{"no products", orderFor("Main st 1")},
		{"zero quantity", orderFor("Main st 1", models.OrderLine{ProductID: chair.ID, Quantity: 0})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := orders.PlaceOrder(ctx, alice.ID, tc.data)
			var appErr *utils.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, utils.KindValidation, appErr.Kind)
		})
	}

	_, err := orders.PlaceOrder(ctx, 999, orderFor("Main st 1", models.OrderLine{ProductID: chair.ID, Quantity: 1}))
	assert.Equal(t, 404, utils.HTTPStatus(err))
	assert.Equal(t, 5, stockOf(t, db, chair.ID))
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db, nil)
	chair := seedProduct(t, db, "chair", "10.00", 5)

	const buyers = 8
	buyerIDs := make([]uint, buyers)
	for i := range buyerIDs {
		buyerIDs[i] = seedUser(t, db, string(rune('a'+i))+"@x.io", models.RoleUser).ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded, rejected := 0, 0
	for _, id := range buyerIDs {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := orders.PlaceOrder(context.Background(), userID, orderFor("Main st 1", models.OrderLine{ProductID: chair.ID, Quantity: 2}))
			mu.Lock()
			defer mu.Unlock()
			var stockErr *utils.InsufficientStockError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &stockErr):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, buyers-2, rejected)
	assert.Equal(t, 1, stockOf(t, db, chair.ID))
	assert.EqualValues(t, 2, countRows(t, db, &models.Order{}))
}

func TestOrderReadSide(t *testing.T) {
	db := newTestDB(t)
	orders := NewOrderService(db, nil)
	alice := seedUser(t, db, "a@x.io", models.RoleUser)
	bob := seedUser(t, db, "b@x.io", models.RoleUser)
	chair := seedProduct(t, db, "chair", "10.00", 10)

	first, err := orders.PlaceOrder(ctx, alice.ID, orderFor("A", models.OrderLine{ProductID: chair.ID, Quantity: 1}))
	require.NoError(t, err)
	second, err := orders.PlaceOrder(ctx, alice.ID, orderFor("B", models.OrderLine{ProductID: chair.ID, Quantity: 1}))
	require.NoError(t, err)
	_, err = orders.PlaceOrder(ctx, bob.ID, orderFor("C", models.OrderLine{ProductID: chair.ID, Quantity: 1}))
	require.NoError(t, err)

	mine, err := orders.MyOrders(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Len(t, mine[0].Items, 1)

	_, err = orders.OrderDetails(ctx, bob.ID, first.ID)
	assert.Equal(t, 404, utils.HTTPStatus(err))

	all, err := orders.AllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, o := range all {
		assert.NotNil(t, o.User)
	}

	updated, err := orders.UpdateStatus(ctx, first.ID, models.OrderStatusShipping)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipping, updated.Status)

	updated, err = orders.UpdateStatus(ctx, first.ID, "Lost in transit")
	require.NoError(t, err)
	assert.Equal(t, "Lost in transit", updated.Status)

	_, err = orders.UpdateStatus(ctx, first.ID, "")
	assert.Equal(t, 400, utils.HTTPStatus(err))
	_, err = orders.UpdateStatus(ctx, 999, models.OrderStatusCompleted)
	assert.Equal(t, 404, utils.HTTPStatus(err))
}

type channelNotifier chan notify.Event

func (c channelNotifier) Notify(_ context.Context, ev notify.Event) error {
	c <- ev
	return nil
}

func TestPlaceOrderPublishesEvent(t *testing.T) {
	db := newTestDB(t)
	events := make(channelNotifier, 1)
	orders := NewOrderService(db, events)
	alice := seedUser(t, db, "a@x.io", models.RoleUser)
	chair := seedProduct(t, db, "chair", "10.00", 5)

	view, err := orders.PlaceOrder(ctx, alice.ID, orderFor("A", models.OrderLine{ProductID: chair.ID, Quantity: 1}))
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, notify.EventOrderPlaced, ev.Type)
		assert.Equal(t, view.ID, ev.Order.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no order event published")
	}
}
