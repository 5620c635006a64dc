package models

import "time"

type OrderStatus string
type PaymentMethod string

const (
	// Gateway-path orders start awaiting payment and move to paid when
	// the gateway callback confirms the transaction. A failed or
	// cancelled callback leaves them awaiting payment for a retry.
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusPaid            OrderStatus = "paid"

	// COD orders are created pending processing; fulfillment statuses
	// beyond that are an admin concern.
	OrderStatusPendingProcessing OrderStatus = "pending_processing"

	PaymentMethodCOD   PaymentMethod = "COD"
	PaymentMethodVNPay PaymentMethod = "VNPAY"
)

type Order struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"not null" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`

	// Receiver fields are fixed at checkout and never edited.
	ReceiverName    string `gorm:"not null" json:"receiver_name"`
	ReceiverAddress string `gorm:"not null" json:"receiver_address"`
	ReceiverPhone   string `gorm:"not null" json:"receiver_phone"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`

	// TotalPrice is the cart total captured at creation. It is never
	// recomputed from the items afterwards.
	TotalPrice    float64       `json:"total_price"`
	Status        OrderStatus   `gorm:"type:VARCHAR(30)" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:VARCHAR(10)" json:"payment_method"`

	// VNPay transaction fields. TxnRef and OrderInfo are written when
	// the redirect URL is built; the rest arrive with the callback.
	VnpTxnRef            string `json:"vnp_txn_ref"`
	VnpOrderInfo         string `json:"vnp_order_info"`
	VnpAmount            string `json:"vnp_amount"`
	VnpBankCode          string `json:"vnp_bank_code"`
	VnpPayDate           string `json:"vnp_pay_date"`
	VnpTransactionStatus string `json:"vnp_transaction_status"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderID     uint   `gorm:"index" json:"order_id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	// Price and Quantity are copied verbatim from the cart item that
	// produced this line.
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
