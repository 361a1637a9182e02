package payments

import (
	"context"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

const DefaultCurrency = "usd"

// Gateway is the slice of the payment processor the services need.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, orderID uint, currency string) (*stripe.PaymentIntent, error)
	ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (*stripe.PaymentIntent, error)
}

type StripeGateway struct{}

// NewStripeGateway sets the process-wide API key, mirroring how the key is
// configured once at startup.
func NewStripeGateway(apiKey string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{}
}

// CreateIntent opens a card payment intent for amount in minor units and tags
// it with the order id.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount int64, orderID uint, currency string) (*stripe.PaymentIntent, error) {
	if currency == "" {
		currency = DefaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.AddMetadata("order_id", strconv.FormatUint(uint64(orderID), 10))

	return paymentintent.New(params)
}

func (g *StripeGateway) ConfirmIntent(ctx context.Context, intentID, paymentMethodID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		Params:        stripe.Params{Context: ctx},
		PaymentMethod: stripe.String(paymentMethodID),
	}
	return paymentintent.Confirm(intentID, params)
}
