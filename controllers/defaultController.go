package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the SVD Mebel API. The following are the endpoints for this API:

AUTH
- POST "/auth/register" - Create user account
- POST "/auth/login" - Access user account
- GET "/auth/me" - Current user profile
- POST "/auth/verify-email/:code" - Verify email address

CATALOG
- GET "/products" - Get all products
- GET "/products/:subcategoryId" - Get products of a subcategory
- GET "/product/:productId" - Get product by ID
- GET "/products/attributes" - Get product attributes
- GET "/category/" - Get categories
- GET "/subcategory/" - Get subcategories
- GET "/subcategory/:categoryId/subcategories" - Get subcategories of a category

CART
- POST "/cart/add" - Add product to cart
- GET "/cart/:userId" - Get cart
- PUT "/cart/update/:itemId" - Change quantity
- DELETE "/cart/remove/:itemId" - Remove product from cart
- DELETE "/cart/clear" - Empty cart

ORDER
- POST "/orders/create" - Place an order
- GET "/orders/my" - Get own orders
- GET "/orders/order/:id" - Get own order by ID

USER
- GET "/user/profile" - Get profile
- PUT "/user/profile/address" - Update address
- PUT "/user/profile/phone" - Update phone number`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
