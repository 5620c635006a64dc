package orderControllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ngkhanh0211/baitapcuoiki1/internal/session"
	"github.com/ngkhanh0211/baitapcuoiki1/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrCartGone means the cart row vanished between the initial lookup
// and the delete — a concurrent teardown of the same cart. The order is
// already placed at that point, so this signals a torn invariant, not
// bad user input.
var ErrCartGone = errors.New("cart already torn down")

// TearDownCart destroys the user's cart once an order has captured its
// contents: every cart item is deleted, the cart is detached from the
// user record, the cart row itself is deleted, and the cached item
// counter drops to zero.
//
// A user with no cart at all is a no-op. Calling it twice concurrently
// for the same cart is not safe — the loser's re-fetch returns
// ErrCartGone. Callers must invoke it once per successful order.
func TearDownCart(ctx context.Context, db *gorm.DB, cache session.Cache, userID string) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	// No-op when the cart is already empty.
	if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	// Detach the cart from the user before deleting the row.
	if err := db.Model(&models.User{}).Where("id = ?", userID).
		Update("cart_id", nil).Error; err != nil {
		return err
	}

	// Re-fetch by id so we delete a row we know still exists.
	var managed models.Cart
	if err := db.First(&managed, cart.CartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart %d", ErrCartGone, cart.CartID)
		}
		return err
	}
	if err := db.Delete(&managed).Error; err != nil {
		return err
	}

	// Counter is advisory; the cart rows above are the truth.
	if err := cache.ResetCartCount(ctx, userID); err != nil {
		zap.S().Warnw("failed to reset cart counter", "user_id", userID, "error", err)
	}
	return nil
}
