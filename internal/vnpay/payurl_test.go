package vnpay

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		TmnCode:    "TESTTMN",
		HashSecret: "topsecret",
		PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
		ReturnURL:  "https://shop.example.com/payment/vnpay/callback",
	}
}

func TestBuildPaymentURL(t *testing.T) {
	cfg := testConfig()
	raw := cfg.BuildPaymentURL("7-1700000000000", "Thanh toan don hang #7", 200, "203.0.113.9", time.Now())

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, cfg.PayURL+"?"))

	q := u.Query()
	assert.Equal(t, "7-1700000000000", q.Get("vnp_TxnRef"))
	assert.Equal(t, "20000", q.Get("vnp_Amount")) // VND x100
	assert.Equal(t, "TESTTMN", q.Get("vnp_TmnCode"))
	assert.Equal(t, cfg.ReturnURL, q.Get("vnp_ReturnUrl"))
	assert.NotEmpty(t, q.Get("vnp_SecureHash"))
}

func TestBuildPaymentURLSignatureVerifies(t *testing.T) {
	cfg := testConfig()
	raw := cfg.BuildPaymentURL("7-1700000000000", "Thanh toan don hang #7", 200, "203.0.113.9", time.Now())

	u, err := url.Parse(raw)
	require.NoError(t, err)

	params := make(map[string]string)
	for k, v := range u.Query() {
		params[k] = v[0]
	}

	assert.True(t, VerifySignature(params, params["vnp_SecureHash"], cfg.HashSecret))
	assert.False(t, VerifySignature(params, params["vnp_SecureHash"], "wrong-secret"))

	// Tampering with any parameter must break the signature.
	params["vnp_Amount"] = "1"
	assert.False(t, VerifySignature(params, params["vnp_SecureHash"], cfg.HashSecret))
}
