package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/ngkhanh0211/baitapcuoiki1/controllers/order"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/session"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/vnpay"
	"github.com/ngkhanh0211/baitapcuoiki1/middleware"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cache session.Cache, cfg vnpay.Config) {
	checkout := r.Group("/checkout")
	checkout.Use(middleware.ValidateToken)
	{
		// Convert the current cart into an order (COD or VNPAY)
		checkout.POST("/place-order", orderControllers.PlaceOrderHandler(db, cache, cfg))
	}

	orders := r.Group("/orders")
	{
		// Current user's order history
		orders.GET("/history", middleware.ValidateToken, orderControllers.GetUserOrdersHandler(db))

		// websocket endpoint for real-time order updates
		orders.GET("/ws", orderControllers.OrderWebSocketHandler)
	}

	// Admin order operations (API-key-protected)
	admin := r.Group("/admin/orders")
	admin.Use(middleware.ValidateAPIKey)
	{
		admin.GET("/", orderControllers.GetAllOrdersHandler(db))
		admin.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
		admin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
		admin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(db))
	}
}
