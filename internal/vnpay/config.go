package vnpay

import (
	"fmt"
	"os"
	"strings"
)

// VNPay success code, shared by vnp_ResponseCode and
// vnp_TransactionStatus.
const SuccessCode = "00"

type Config struct {
	TmnCode    string // merchant terminal id
	HashSecret string // HMAC-SHA512 secret shared with VNPay
	PayURL     string // payment page, e.g. https://sandbox.vnpayment.vn/paymentv2/vpcpay.html
	ReturnURL  string // our callback endpoint, echoed back by the gateway
	Sandbox    bool
}

// ConfigFromEnv reads the VNPAY_* variables. All of TmnCode, HashSecret
// and PayURL must be present.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		TmnCode:    os.Getenv("VNPAY_TMN_CODE"),
		HashSecret: os.Getenv("VNPAY_HASH_SECRET"),
		PayURL:     os.Getenv("VNPAY_PAY_URL"),
		ReturnURL:  os.Getenv("VNPAY_RETURN_URL"),
	}

	mode := strings.ToLower(os.Getenv("VNPAY_MODE"))
	if mode == "sandbox" || mode == "dev" {
		cfg.Sandbox = true
	}

	if cfg.TmnCode == "" || cfg.HashSecret == "" || cfg.PayURL == "" {
		return Config{}, fmt.Errorf("vnpay configuration missing")
	}
	return cfg, nil
}
