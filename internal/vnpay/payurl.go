package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// BuildPaymentURL assembles the signed redirect URL for the VNPay
// payment page. amount is in VND; VNPay wants it multiplied by 100 with
// no decimal part. No network call happens here.
func (c Config) BuildPaymentURL(txnRef, orderInfo string, amount float64, clientIP string, createdAt time.Time) string {
	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    c.TmnCode,
		"vnp_Amount":     fmt.Sprintf("%.0f", amount*100),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  c.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": createdAt.Format("20060102150405"),
	}

	query := SignedQuery(params, c.HashSecret)
	return c.PayURL + "?" + query
}

// SignedQuery builds the canonical VNPay query string: parameters
// sorted by name, URL-encoded, HMAC-SHA512 over that exact string with
// the shared secret, signature appended as vnp_SecureHash.
func SignedQuery(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}

	data := b.String()
	return data + "&vnp_SecureHash=" + Sign(data, secret)
}

// Sign computes the hex HMAC-SHA512 of data with the shared secret.
func Sign(data, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the signature over the callback parameters
// (minus the hash fields themselves) and compares it against the value
// the gateway sent.
func VerifySignature(params map[string]string, providedHash, secret string) bool {
	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		filtered[k] = v
	}

	keys := make([]string, 0, len(filtered))
	for k, v := range filtered {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(filtered[k]))
	}

	expected := Sign(b.String(), secret)
	return hmac.Equal([]byte(strings.ToLower(providedHash)), []byte(expected))
}
