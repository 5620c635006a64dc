package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/session"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/vnpay"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the cart, order
// and payment route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cache session.Cache, cfg vnpay.Config) {
	// Cart routes (JWT-protected)
	SetupCartRoutes(r, db, cache)

	// Checkout + order routes
	SetupOrderRoutes(r, db, cache, cfg)

	// VNPay callback routes
	SetupVNPayRoutes(r, db, cache, cfg)
}
