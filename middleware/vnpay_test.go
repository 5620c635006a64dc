package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/vnpay"
	"github.com/stretchr/testify/assert"
)

func callbackRouter(cfg vnpay.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/payment/vnpay/callback", VNPayCallbackAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestVNPayCallbackAuthValidSignature(t *testing.T) {
	cfg := vnpay.Config{TmnCode: "TESTTMN", HashSecret: "topsecret", PayURL: "https://pay.example.com"}
	r := callbackRouter(cfg)

	params := map[string]string{
		"vnp_ResponseCode":      "00",
		"vnp_TxnRef":            "7-1700000000000",
		"vnp_Amount":            "20000",
		"vnp_TransactionStatus": "00",
	}
	query := vnpay.SignedQuery(params, cfg.HashSecret)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payment/vnpay/callback?"+query, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVNPayCallbackAuthBadSignature(t *testing.T) {
	cfg := vnpay.Config{TmnCode: "TESTTMN", HashSecret: "topsecret", PayURL: "https://pay.example.com"}
	r := callbackRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/payment/vnpay/callback?vnp_TxnRef=7-1700000000000&vnp_SecureHash=deadbeef", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVNPayCallbackAuthMissingSignature(t *testing.T) {
	cfg := vnpay.Config{TmnCode: "TESTTMN", HashSecret: "topsecret", PayURL: "https://pay.example.com"}
	r := callbackRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payment/vnpay/callback?vnp_TxnRef=7-1700000000000", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVNPayCallbackAuthSandboxSkips(t *testing.T) {
	cfg := vnpay.Config{TmnCode: "TESTTMN", HashSecret: "topsecret", PayURL: "https://pay.example.com", Sandbox: true}
	r := callbackRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payment/vnpay/callback?vnp_TxnRef=7-1700000000000", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
