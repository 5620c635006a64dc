package vnpayControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/gin-gonic/gin"
	orderControllers "github.com/ngkhanh0211/baitapcuoiki1/controllers/order"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/session"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/vnpay"
	"github.com/ngkhanh0211/baitapcuoiki1/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CallbackStatus string

const (
	CallbackSuccess CallbackStatus = "SUCCESS"
	CallbackFailed  CallbackStatus = "FAILED"
	CallbackError   CallbackStatus = "ERROR"
)

// CallbackParams is the full set of gateway-supplied callback fields.
type CallbackParams struct {
	ResponseCode      string
	TxnRef            string
	Amount            string
	TransactionStatus string
	BankCode          string
	PayDate           string
	OrderInfo         string
	SecureHash        string
}

type CallbackResult struct {
	Status  CallbackStatus
	Message string
	OrderID uint
}

// ProcessCallback reconciles an inbound VNPay callback with its order.
// The transaction reference maps the callback to an order id; a
// success/success code pair marks the order paid and copies the echoed
// gateway fields, anything else reverts it to awaiting payment so the
// shopper can retry. Faults of any kind come back as an ERROR result,
// never as a panic.
func ProcessCallback(ctx context.Context, db *gorm.DB, cache session.Cache, p CallbackParams) (result CallbackResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorw("panic while processing payment callback", "txn_ref", p.TxnRef, "panic", r)
			result = CallbackResult{Status: CallbackError, Message: fmt.Sprintf("error processing payment: %v", r)}
		}
	}()

	ref, err := vnpay.ParseTxnRef(p.TxnRef)
	if err != nil {
		return CallbackResult{Status: CallbackError, Message: err.Error()}
	}

	var order models.Order
	if err := db.First(&order, ref.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CallbackResult{Status: CallbackError, Message: "order not found"}
		}
		return CallbackResult{Status: CallbackError, Message: err.Error()}
	}

	if p.ResponseCode == vnpay.SuccessCode && p.TransactionStatus == vnpay.SuccessCode {
		// Absorb duplicate deliveries of the same success callback.
		// The cached key alone is not proof of payment — a delivery can
		// set it and then fail to persist — so the order's own status
		// has the final say.
		if fresh, err := cache.MarkTxnProcessed(ctx, p.TxnRef); err != nil {
			// Cache down: the conditioned update below still guards.
			zap.S().Warnw("idempotency check unavailable", "txn_ref", p.TxnRef, "error", err)
		} else if !fresh && order.Status == models.OrderStatusPaid {
			return CallbackResult{Status: CallbackSuccess, Message: "payment already processed", OrderID: order.ID}
		}

		res := db.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusAwaitingPayment).
			Updates(map[string]interface{}{
				"vnp_txn_ref":            p.TxnRef,
				"vnp_amount":             p.Amount,
				"vnp_bank_code":          p.BankCode,
				"vnp_pay_date":           p.PayDate,
				"vnp_transaction_status": p.TransactionStatus,
				"vnp_order_info":         p.OrderInfo,
				"status":                 models.OrderStatusPaid,
			})
		if res.Error != nil {
			return CallbackResult{Status: CallbackError, Message: res.Error.Error()}
		}
		if res.RowsAffected == 0 {
			// The order was not awaiting payment at update time. Paid
			// means an earlier delivery won; anything else (a COD
			// order's id in the reference, say) is not a payable order.
			var current models.Order
			if err := db.First(&current, order.ID).Error; err == nil && current.Status == models.OrderStatusPaid {
				return CallbackResult{Status: CallbackSuccess, Message: "payment already processed", OrderID: order.ID}
			}
			return CallbackResult{Status: CallbackError, Message: "order not awaiting payment", OrderID: order.ID}
		}
		return CallbackResult{Status: CallbackSuccess, Message: "payment successful", OrderID: order.ID}
	}

	// Failed or cancelled: record what the gateway said and leave the
	// order awaiting payment for a retry. Paid orders stay paid.
	if err := db.Model(&models.Order{}).
		Where("id = ? AND status <> ?", order.ID, models.OrderStatusPaid).
		Updates(map[string]interface{}{
			"vnp_txn_ref":            p.TxnRef,
			"vnp_transaction_status": p.TransactionStatus,
			"status":                 models.OrderStatusAwaitingPayment,
		}).Error; err != nil {
		return CallbackResult{Status: CallbackError, Message: err.Error()}
	}
	return CallbackResult{Status: CallbackFailed, Message: "payment failed or cancelled", OrderID: order.ID}
}

// paramsFromQuery collects the vnp_* fields from a callback request.
func paramsFromQuery(c *gin.Context) CallbackParams {
	return CallbackParams{
		ResponseCode:      c.Query("vnp_ResponseCode"),
		TxnRef:            c.Query("vnp_TxnRef"),
		Amount:            c.Query("vnp_Amount"),
		TransactionStatus: c.Query("vnp_TransactionStatus"),
		BankCode:          c.Query("vnp_BankCode"),
		PayDate:           c.Query("vnp_PayDate"),
		OrderInfo:         c.Query("vnp_OrderInfo"),
		SecureHash:        c.Query("vnp_SecureHash"),
	}
}

// GET /payment/vnpay/callback
//
// The gateway sends the shopper's browser back here, so the handler
// answers with redirects to the success/failed pages rather than JSON.
func CallbackHandler(db *gorm.DB, cache session.Cache) gin.HandlerFunc {
	successURL := os.Getenv("ORDER_SUCCESS_URL")
	if successURL == "" {
		successURL = "/order-success"
	}
	failedURL := os.Getenv("ORDER_FAILED_URL")
	if failedURL == "" {
		failedURL = "/order-failed"
	}

	return func(c *gin.Context) {
		result := ProcessCallback(c.Request.Context(), db, cache, paramsFromQuery(c))

		switch result.Status {
		case CallbackSuccess:
			var order models.Order
			if err := db.First(&order, result.OrderID).Error; err == nil {
				// The paid order no longer needs its source cart.
				if err := orderControllers.TearDownCart(c.Request.Context(), db, cache, order.UserID); err != nil {
					zap.S().Errorw("failed to tear down cart after payment",
						"order_id", order.ID, "user_id", order.UserID, "error", err)
				}
				orderControllers.BroadcastOrderPaid(order)
			}
			c.Redirect(http.StatusFound, successURL+"?orderId="+fmt.Sprint(result.OrderID))
		case CallbackFailed:
			c.Redirect(http.StatusFound, failedURL+"?message="+url.QueryEscape(result.Message))
		default:
			zap.S().Errorw("payment callback error", "message", result.Message)
			c.Redirect(http.StatusFound, failedURL+"?message="+url.QueryEscape(result.Message))
		}
	}
}
