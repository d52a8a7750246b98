package razorpay

//go:generate go run go.uber.org/mock/mockgen -source=./razorpay.go -destination=./mocks/razorpay_mock.go -package=mocks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"ghumakad/config"
	"ghumakad/infras/otel"
	"ghumakad/shared/constant"

	razorpayGo "github.com/razorpay/razorpay-go"
	"github.com/rs/zerolog/log"
)

const (
	paisePerRupee = 100

	otelAttrOrderID   = "gateway.order_id"
	otelAttrPaymentID = "gateway.payment_id"
)

// Order is the subset of a gateway order the application cares about.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// Gateway wraps the payment provider: order creation, callback signature
// verification, and refunds.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, receipt string) (Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	Refund(ctx context.Context, paymentID string, amount int64) (string, error)
}

type gatewayImpl struct {
	client *razorpayGo.Client
	config *config.Config
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) Gateway {
	client := razorpayGo.NewClient(
		config.External.Razorpay.KeyID,
		config.External.Razorpay.KeySecret,
	)

	return &gatewayImpl{
		client: client,
		config: config,
		otel:   otel,
	}
}

// CreateOrder registers a payment intent with the gateway. The amount is in
// whole currency units and converted to the gateway's minor unit here.
func (g *gatewayImpl) CreateOrder(ctx context.Context, amount int64, receipt string) (res Order, err error) {
	_, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".CreateOrder")
	defer scope.End()
	defer scope.TraceIfError(err)

	data := map[string]interface{}{
		"amount":   amount * paisePerRupee,
		"currency": g.config.External.Razorpay.Currency,
		"receipt":  receipt,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		log.Error().Err(err).Str("receipt", receipt).Msg("failed to create gateway order")

		return res, fmt.Errorf("failed to create gateway order: %w", err)
	}

	res.ID, _ = order["id"].(string)
	res.Receipt, _ = order["receipt"].(string)
	res.Currency, _ = order["currency"].(string)

	switch amt := order["amount"].(type) {
	case float64:
		res.Amount = int64(amt)
	case int64:
		res.Amount = amt
	}

	scope.SetAttribute(otelAttrOrderID, res.ID)

	return res, nil
}

// VerifySignature recomputes HMAC-SHA256(secret, orderID+"|"+paymentID) and
// compares it with the supplied signature in constant time.
func (g *gatewayImpl) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.config.External.Razorpay.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))

	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Refund issues a full or partial refund against a captured payment. The
// amount is in whole currency units. It returns the gateway's refund id.
func (g *gatewayImpl) Refund(ctx context.Context, paymentID string, amount int64) (refundID string, err error) {
	_, scope := g.otel.NewScope(ctx, constant.OtelGatewayScopeName, constant.OtelGatewayScopeName+".Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrPaymentID, paymentID)

	refund, err := g.client.Payment.Refund(paymentID, int(amount*paisePerRupee), nil, nil)
	if err != nil {
		log.Error().Err(err).Str("payment_id", paymentID).Msg("failed to refund payment")

		return constant.Empty, fmt.Errorf("failed to refund payment: %w", err)
	}

	refundID, _ = refund["id"].(string)

	return refundID, nil
}
