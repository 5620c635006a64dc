package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/session"
	"github.com/ngkhanh0211/baitapcuoiki1/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// Snapshot is a read-only view of a user's cart at a point in time:
// the lines plus their computed total.
type Snapshot struct {
	Items      []models.CartItem `json:"items"`
	TotalPrice float64           `json:"total_price"`
}

// SnapshotForUser resolves the user's cart and its items. A user with
// no cart gets an empty snapshot, not an error — "no cart" is a normal
// state, and callers must not treat it as a failure. No writes happen
// here.
func SnapshotForUser(db *gorm.DB, userID string) (Snapshot, error) {
	snap := Snapshot{Items: []models.CartItem{}}

	var cart models.Cart
	err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return snap, nil
		}
		return snap, err
	}

	snap.Items = cart.Items
	for _, item := range cart.Items {
		snap.TotalPrice += item.Subtotal()
	}
	return snap, nil
}

// GET /cart
func GetUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		snap, err := SnapshotForUser(db, userID)
		if err != nil {
			zap.S().Errorw("failed to fetch cart", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		c.JSON(http.StatusOK, snap)
	}
}

// POST /cart
func UpdateCartItem(db *gorm.DB, cache session.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		// Fetch product from DB
		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			status := http.StatusInternalServerError
			errMsg := "Failed to validate product"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				status = http.StatusBadRequest
				errMsg = "Product does not exist"
			}
			c.JSON(status, gin.H{"error": errMsg})
			return
		}

		// Resolve or create the user's cart
		var cart models.Cart
		if err := db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}
		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("cart_id", cart.CartID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach cart"})
			return
		}

		// Check if item already exists in the cart
		var item models.CartItem
		err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, input.ProductID).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				newItem := models.CartItem{
					CartID:      cart.CartID,
					ProductID:   product.ID,
					ProductName: product.Name,
					Price:       product.Price,
					Quantity:    input.Quantity,
					AddedAt:     time.Now(),
				}
				if err := db.Create(&newItem).Error; err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
					return
				}
				syncCartCount(c, db, cache, cart.CartID, userID)
				c.JSON(http.StatusCreated, newItem)
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}

		// Update existing cart item quantity and time
		item.Quantity = input.Quantity
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}

		syncCartCount(c, db, cache, cart.CartID, userID)
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /cart/:product_id
func DeleteCartItem(db *gorm.DB, cache session.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(string)
		productID := c.Param("product_id")

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User cart not found"})
			return
		}

		result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}

		syncCartCount(c, db, cache, cart.CartID, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// syncCartCount refreshes the cached line counter after a cart
// mutation. The cache is advisory; a failure here is logged, not
// surfaced to the shopper.
func syncCartCount(c *gin.Context, db *gorm.DB, cache session.Cache, cartID uint, userID string) {
	var count int64
	if err := db.Model(&models.CartItem{}).Where("cart_id = ?", cartID).Count(&count).Error; err != nil {
		zap.S().Warnw("failed to count cart items", "user_id", userID, "error", err)
		return
	}
	if err := cache.SetCartCount(c.Request.Context(), userID, int(count)); err != nil {
		zap.S().Warnw("failed to update cart counter", "user_id", userID, "error", err)
	}
}
