package orderControllers

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	cartControllers "github.com/ngkhanh0211/baitapcuoiki1/controllers/cart"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/vnpay"
	"github.com/ngkhanh0211/baitapcuoiki1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeCache is an in-memory stand-in for the Redis session cache.
type fakeCache struct {
	mu     sync.Mutex
	counts map[string]int
	seen   map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{counts: make(map[string]int), seen: make(map[string]bool)}
}

func (f *fakeCache) CartCount(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[userID], nil
}

func (f *fakeCache) SetCartCount(ctx context.Context, userID string, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[userID] = count
	return nil
}

func (f *fakeCache) ResetCartCount(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[userID] = 0
	return nil
}

func (f *fakeCache) MarkTxnProcessed(ctx context.Context, txnRef string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen[txnRef] {
		return false, nil
	}
	f.seen[txnRef] = true
	return true, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

// seedCart creates a user with a two-line cart: price 100 x1 and
// price 50 x2, total 200.
func seedCart(t *testing.T, db *gorm.DB, userID string) models.Cart {
	t.Helper()
	cart := models.Cart{UserID: userID}
	require.NoError(t, db.Create(&cart).Error)

	user := models.User{ID: userID, Email: userID + "@example.com", CartID: &cart.CartID}
	require.NoError(t, db.Create(&user).Error)

	items := []models.CartItem{
		{CartID: cart.CartID, ProductID: 1, ProductName: "Laptop A", Price: 100, Quantity: 1, AddedAt: time.Now()},
		{CartID: cart.CartID, ProductID: 2, ProductName: "Mouse B", Price: 50, Quantity: 2, AddedAt: time.Now()},
	}
	require.NoError(t, db.Create(&items).Error)
	return cart
}

func checkoutInput(userID string) CheckoutInput {
	return CheckoutInput{
		UserID:          userID,
		ReceiverName:    "Nguyen Van A",
		ReceiverAddress: "1 Pham Van Dong, Ha Noi",
		ReceiverPhone:   "0900000000",
	}
}

func TestCreateForCOD(t *testing.T) {
	db := setupTestDB(t)
	cache := newFakeCache()
	cache.counts["u1"] = 2
	cart := seedCart(t, db, "u1")

	order, err := CreateForCOD(context.Background(), db, cache, checkoutInput("u1"))
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, 200.0, order.TotalPrice)
	assert.Equal(t, models.OrderStatusPendingProcessing, order.Status)
	assert.Equal(t, models.PaymentMethodCOD, order.PaymentMethod)

	// Order lines copied verbatim, total equals sum of price x quantity.
	var lines []models.OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&lines).Error)
	require.Len(t, lines, 2)
	var sum float64
	for _, l := range lines {
		sum += l.Price * float64(l.Quantity)
	}
	assert.Equal(t, order.TotalPrice, sum)

	// Cart torn down: no lines, no cart row, user detached, counter 0.
	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)
	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).Count(&cartCount).Error)
	assert.Zero(t, cartCount)

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", "u1").Error)
	assert.Nil(t, user.CartID)
	assert.Equal(t, 0, cache.counts["u1"])
}

func TestCreateForGatewayKeepsCart(t *testing.T) {
	db := setupTestDB(t)
	cart := seedCart(t, db, "u1")

	order, err := CreateForGateway(context.Background(), db, checkoutInput("u1"))
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, models.OrderStatusAwaitingPayment, order.Status)
	assert.Equal(t, models.PaymentMethodVNPay, order.PaymentMethod)
	assert.Equal(t, 200.0, order.TotalPrice)

	// The cart must survive until the payment is confirmed.
	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&itemCount).Error)
	assert.Equal(t, int64(2), itemCount)
}

func TestCreateForGatewayPaymentURL(t *testing.T) {
	db := setupTestDB(t)
	seedCart(t, db, "u1")

	order, err := CreateForGateway(context.Background(), db, checkoutInput("u1"))
	require.NoError(t, err)

	cfg := vnpay.Config{
		TmnCode:    "TESTTMN",
		HashSecret: "topsecret",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example.com/payment/vnpay/callback",
	}
	paymentURL, err := vnpay.CreatePaymentURL(db, cfg, order, "203.0.113.9")
	require.NoError(t, err)

	refPattern := regexp.MustCompile(fmt.Sprintf(`%d-\d+`, order.ID))
	assert.Regexp(t, refPattern, paymentURL)

	// The reference and order info are persisted on the order.
	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Regexp(t, refPattern, stored.VnpTxnRef)
	assert.Contains(t, stored.VnpOrderInfo, fmt.Sprintf("#%d", order.ID))
}

func TestCreateOrderEmptyOrAbsentCart(t *testing.T) {
	db := setupTestDB(t)
	cache := newFakeCache()

	// User with a cart that has zero lines.
	cart := models.Cart{UserID: "empty"}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.User{ID: "empty", Email: "empty@example.com", CartID: &cart.CartID}).Error)

	// User with no cart at all.
	require.NoError(t, db.Create(&models.User{ID: "bare", Email: "bare@example.com"}).Error)

	for _, userID := range []string{"empty", "bare"} {
		_, err := CreateForCOD(context.Background(), db, cache, checkoutInput(userID))
		assert.ErrorIs(t, err, ErrEmptyCart)

		_, err = CreateForGateway(context.Background(), db, checkoutInput(userID))
		assert.ErrorIs(t, err, ErrEmptyCart)
	}

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
	var lineCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&lineCount).Error)
	assert.Zero(t, lineCount)
}

func TestTearDownCartNoCartIsNoop(t *testing.T) {
	db := setupTestDB(t)
	cache := newFakeCache()
	require.NoError(t, db.Create(&models.User{ID: "bare", Email: "bare@example.com"}).Error)

	assert.NoError(t, TearDownCart(context.Background(), db, cache, "bare"))
}

func TestTearDownCartEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	cache := newFakeCache()
	cart := models.Cart{UserID: "u1"}
	require.NoError(t, db.Create(&cart).Error)
	require.NoError(t, db.Create(&models.User{ID: "u1", Email: "u1@example.com", CartID: &cart.CartID}).Error)

	require.NoError(t, TearDownCart(context.Background(), db, cache, "u1"))

	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&cartCount).Error)
	assert.Zero(t, cartCount)
}

func TestSnapshotTotalMatchesOrderTotal(t *testing.T) {
	db := setupTestDB(t)
	seedCart(t, db, "u1")

	snap, err := cartControllers.SnapshotForUser(db, "u1")
	require.NoError(t, err)

	order, err := CreateForGateway(context.Background(), db, checkoutInput("u1"))
	require.NoError(t, err)
	assert.Equal(t, snap.TotalPrice, order.TotalPrice)
}
