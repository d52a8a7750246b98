package razorpay_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"ghumakad/config"
	"ghumakad/infras/otel/mocks"
	"ghumakad/infras/razorpay"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))

	return hex.EncodeToString(mac.Sum(nil))
}

func TestGateway_VerifySignature(t *testing.T) {
	const secret = "test-secret"

	cfg := &config.Config{}
	cfg.External.Razorpay.KeyID = "rzp_test_key"
	cfg.External.Razorpay.KeySecret = secret

	gateway := razorpay.New(cfg, mocks.NewOtel())

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{
			name:      "valid signature",
			orderID:   "order_abc123",
			paymentID: "pay_abc123",
			signature: sign(secret, "order_abc123", "pay_abc123"),
			want:      true,
		},
		{
			name:      "forged signature",
			orderID:   "order_abc123",
			paymentID: "pay_abc123",
			signature: "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
			want:      false,
		},
		{
			name:      "empty signature",
			orderID:   "order_abc123",
			paymentID: "pay_abc123",
			signature: "",
			want:      false,
		},
		{
			name:      "signature for a different payment",
			orderID:   "order_abc123",
			paymentID: "pay_abc123",
			signature: sign(secret, "order_abc123", "pay_xyz789"),
			want:      false,
		},
		{
			name:      "signature computed with the wrong secret",
			orderID:   "order_abc123",
			paymentID: "pay_abc123",
			signature: sign("other-secret", "order_abc123", "pay_abc123"),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gateway.VerifySignature(tt.orderID, tt.paymentID, tt.signature)

			assert.Equal(t, tt.want, got)
		})
	}
}
