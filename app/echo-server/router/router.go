package router

import (
	"eswika/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.GET("/me", handler.Me, authRequired)
	users.POST("/logout", handler.Logout, authRequired)
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct, authRequired)
	products.PUT("/:id", handler.UpdateProduct, authRequired)
	products.DELETE("/:id", handler.DeleteProduct, authRequired)

	api.GET("/farmer/products", handler.GetMyProducts, authRequired)
}

func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler, authRequired echo.MiddlewareFunc) {
	cart := api.Group("/cart", authRequired)

	cart.GET("", handler.GetCart)
	cart.POST("/add", handler.AddToCart)
	cart.PUT("/:id", handler.UpdateCartItem)
	cart.DELETE("/:id", handler.RemoveCartItem)
	cart.POST("/checkout", handler.Checkout)
}

func SetOrdersRoutes(api *echo.Group, handler *rest.OrdersHandler, authRequired echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)

	orders.POST("", handler.CreateOrder)
	orders.GET("", handler.GetAllOrders)
	orders.PUT("/:id/status", handler.UpdateOrderStatus)
	orders.DELETE("/:id", handler.CancelOrder)
}

func SetPaymentsRoutes(api *echo.Group, handler *rest.PaymentsHandler, authRequired echo.MiddlewareFunc) {
	payments := api.Group("/payments", authRequired)

	payments.POST("/process", handler.ProcessPayment)
	payments.GET("/:id/status", handler.GetPaymentStatus)
	payments.POST("/:id/confirm-delivery", handler.ConfirmDelivery)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.AdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin")

	admin.POST("/login", handler.Login)

	admin.GET("/statistics", handler.GetStatistics, authRequired, adminOnly)
	admin.GET("/users", handler.GetUsers, authRequired, adminOnly)
	admin.GET("/users/:id", handler.GetUserDetails, authRequired, adminOnly)
	admin.GET("/products/pending", handler.GetPendingProducts, authRequired, adminOnly)
	admin.POST("/products/:id/validate", handler.ValidateProduct, authRequired, adminOnly)
}
