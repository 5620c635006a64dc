package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ngkhanh0211/baitapcuoiki1/internal/vnpay"
	"go.uber.org/zap"
)

// VNPayCallbackAuth verifies the vnp_SecureHash on an inbound callback
// against the shared hash secret, skips the check in sandbox/dev mode.
func VNPayCallbackAuth(cfg vnpay.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Sandbox {
			zap.S().Debug("sandbox mode: skipping vnpay callback signature verification")
			c.Next()
			return
		}

		providedHash := c.Query("vnp_SecureHash")
		if providedHash == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing vnp_SecureHash"})
			c.Abort()
			return
		}

		params := make(map[string]string)
		for key, values := range c.Request.URL.Query() {
			if !strings.HasPrefix(key, "vnp_") || len(values) == 0 {
				continue
			}
			params[key] = values[0]
		}

		if !vnpay.VerifySignature(params, providedHash, cfg.HashSecret) {
			zap.S().Warnw("rejected vnpay callback with bad signature",
				"txn_ref", c.Query("vnp_TxnRef"))
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid callback signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
