package routes

import (
	"github.com/gin-gonic/gin"
	vnpayControllers "github.com/ngkhanh0211/baitapcuoiki1/controllers/vnpay"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/session"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/vnpay"
	"github.com/ngkhanh0211/baitapcuoiki1/middleware"
	"gorm.io/gorm"
)

func SetupVNPayRoutes(r *gin.Engine, db *gorm.DB, cache session.Cache, cfg vnpay.Config) {
	payment := r.Group("/payment/vnpay")
	{
		// Return endpoint the gateway redirects the shopper back to;
		// middleware verifies the callback signature.
		payment.GET("/callback",
			middleware.VNPayCallbackAuth(cfg),
			vnpayControllers.CallbackHandler(db, cache),
		)
	}
}
