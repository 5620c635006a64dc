package vnpay

import (
	"fmt"
	"time"

	"github.com/ngkhanh0211/baitapcuoiki1/models"
	"gorm.io/gorm"
)

// CreatePaymentURL binds a transaction reference and order-info string
// to an awaiting-payment order, persists them, and returns the signed
// redirect URL for the VNPay payment page. Only URL assembly happens
// here; no request is sent to the gateway.
func CreatePaymentURL(db *gorm.DB, cfg Config, order *models.Order, clientIP string) (string, error) {
	now := time.Now()
	txnRef := NewTxnRef(order.ID, now).String()
	orderInfo := fmt.Sprintf("Thanh toan don hang #%d", order.ID)

	order.VnpTxnRef = txnRef
	order.VnpOrderInfo = orderInfo
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"vnp_txn_ref":    txnRef,
		"vnp_order_info": orderInfo,
	}).Error; err != nil {
		return "", err
	}

	return cfg.BuildPaymentURL(txnRef, orderInfo, order.TotalPrice, clientIP, now), nil
}
