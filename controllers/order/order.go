package orderControllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	cartControllers "github.com/ngkhanh0211/baitapcuoiki1/controllers/cart"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/session"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/vnpay"
	"github.com/ngkhanh0211/baitapcuoiki1/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to order")
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	ReceiverName    string `json:"receiver_name" binding:"required"`
	ReceiverAddress string `json:"receiver_address" binding:"required"`
	ReceiverPhone   string `json:"receiver_phone" binding:"required"`
	PaymentMethod   string `json:"payment_method"` // "COD" (default) or "VNPAY"
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CheckoutInput carries the authenticated user and the receiver fields
// into order creation.
type CheckoutInput struct {
	UserID          string
	ReceiverName    string
	ReceiverAddress string
	ReceiverPhone   string
}

// -------- Helpers --------

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusAwaitingPayment):
		return models.OrderStatusAwaitingPayment, nil
	case string(models.OrderStatusPendingProcessing):
		return models.OrderStatusPendingProcessing, nil
	case string(models.OrderStatusPaid):
		return models.OrderStatusPaid, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// -------- Core Logic --------

// createOrder persists a new order from a cart snapshot, then one order
// item per cart item with price and quantity copied verbatim. The
// total is fixed here and never recomputed.
func createOrder(tx *gorm.DB, in CheckoutInput, snap cartControllers.Snapshot,
	method models.PaymentMethod, status models.OrderStatus) (*models.Order, error) {

	order := models.Order{
		UserID:          in.UserID,
		ReceiverName:    in.ReceiverName,
		ReceiverAddress: in.ReceiverAddress,
		ReceiverPhone:   in.ReceiverPhone,
		Status:          status,
		PaymentMethod:   method,
		TotalPrice:      snap.TotalPrice,
		CreatedAt:       time.Now(),
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}

	for _, item := range snap.Items {
		line := models.OrderItem{
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		}
		if err := tx.Create(&line).Error; err != nil {
			return nil, err
		}
		order.Items = append(order.Items, line)
	}

	return &order, nil
}

// CreateForCOD places a cash-on-delivery order: the order and its lines
// are created pending processing and the source cart is torn down, all
// inside one transaction.
func CreateForCOD(ctx context.Context, db *gorm.DB, cache session.Cache, in CheckoutInput) (*models.Order, error) {
	snap, err := cartControllers.SnapshotForUser(db, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var order *models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		o, err := createOrder(tx, in, snap, models.PaymentMethodCOD, models.OrderStatusPendingProcessing)
		if err != nil {
			return err
		}
		if err := TearDownCart(ctx, tx, cache, in.UserID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreateForGateway places an order that will be paid through VNPay. The
// order starts awaiting payment and the cart is left intact — it must
// survive until the gateway callback confirms the payment.
func CreateForGateway(ctx context.Context, db *gorm.DB, in CheckoutInput) (*models.Order, error) {
	snap, err := cartControllers.SnapshotForUser(db, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var order *models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		o, err := createOrder(tx, in, snap, models.PaymentMethodVNPay, models.OrderStatusAwaitingPayment)
		if err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// -------- Handlers --------

// POST /checkout/place-order
func PlaceOrderHandler(db *gorm.DB, cache session.Cache, cfg vnpay.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := CheckoutInput{
			UserID:          userIDVal.(string),
			ReceiverName:    req.ReceiverName,
			ReceiverAddress: req.ReceiverAddress,
			ReceiverPhone:   req.ReceiverPhone,
		}

		if strings.EqualFold(req.PaymentMethod, string(models.PaymentMethodVNPay)) {
			order, err := CreateForGateway(c.Request.Context(), db, in)
			if errors.Is(err, ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "redirect": "/checkout"})
				return
			}
			if err != nil {
				zap.S().Errorw("failed to create gateway order", "user_id", in.UserID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
				return
			}

			paymentURL, err := vnpay.CreatePaymentURL(db, cfg, order, c.ClientIP())
			if err != nil {
				zap.S().Errorw("failed to build payment url", "order_id", order.ID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
				return
			}

			broadcastOrder(*order)
			c.JSON(http.StatusOK, gin.H{
				"order_id":    order.ID,
				"payment_url": paymentURL,
			})
			return
		}

		// COD (default)
		order, err := CreateForCOD(c.Request.Context(), db, cache, in)
		if errors.Is(err, ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "redirect": "/checkout"})
			return
		}
		if err != nil {
			zap.S().Errorw("failed to place COD order", "user_id", in.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			return
		}

		broadcastOrder(*order)
		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order_id": order.ID})
	}
}

// GET /orders/history
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", userIDVal.(string)).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders/:orderID
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Where("id = ?", id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

// DELETE /admin/orders/:orderID
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id = ?", orderID).
				Delete(&models.Order{}).Error; err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
