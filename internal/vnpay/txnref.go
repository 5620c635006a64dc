package vnpay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformedTxnRef = errors.New("invalid transaction reference")
	ErrInvalidOrderID  = errors.New("invalid order id")
)

// TxnRef correlates an outbound payment redirect with its later inbound
// callback. On the wire it is "{orderId}-{unixMilli}".
type TxnRef struct {
	OrderID  uint
	IssuedAt time.Time
}

func NewTxnRef(orderID uint, issuedAt time.Time) TxnRef {
	return TxnRef{OrderID: orderID, IssuedAt: issuedAt}
}

func (t TxnRef) String() string {
	return fmt.Sprintf("%d-%d", t.OrderID, t.IssuedAt.UnixMilli())
}

// ParseTxnRef decodes a wire-format reference. The order-id segment
// must be a positive integer; anything else is rejected rather than
// guessed at.
func ParseTxnRef(s string) (TxnRef, error) {
	first, rest, found := strings.Cut(s, "-")
	if !found || first == "" {
		return TxnRef{}, ErrMalformedTxnRef
	}

	orderID, err := strconv.ParseUint(first, 10, 64)
	if err != nil || orderID == 0 {
		return TxnRef{}, ErrInvalidOrderID
	}

	ref := TxnRef{OrderID: uint(orderID)}
	if millis, err := strconv.ParseInt(rest, 10, 64); err == nil {
		ref.IssuedAt = time.UnixMilli(millis)
	}
	return ref, nil
}
