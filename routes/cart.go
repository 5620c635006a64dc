package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/ngkhanh0211/baitapcuoiki1/controllers/cart"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/session"
	"github.com/ngkhanh0211/baitapcuoiki1/middleware"
	"gorm.io/gorm"
)

// SetupCartRoutes registers all "/cart/*" endpoints. Requires JWT middleware.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB, cache session.Cache) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken)
	{
		cartGroup.GET("/", cartControllers.GetUserCart(db))                         // GET /cart
		cartGroup.POST("/", cartControllers.UpdateCartItem(db, cache))              // POST /cart
		cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db, cache)) // DELETE /cart/:product_id
	}
}
