package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProcessor creates PaymentIntents through the Stripe API.
type StripeProcessor struct {
	sc *client.API
}

// NewStripeProcessor returns a processor for secretKey. With an empty key
// every call fails with ErrProcessorUnavailable.
func NewStripeProcessor(secretKey string) *StripeProcessor {
	if secretKey == "" {
		return &StripeProcessor{}
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeProcessor{sc: sc}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amountMinor int64, currency string) (Handle, error) {
	if p.sc == nil {
		return Handle{}, fmt.Errorf("%w: stripe is not configured", ErrProcessorUnavailable)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
	}
	params.Context = ctx

	pi, err := p.sc.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Type == stripe.ErrorTypeInvalidRequest {
			return Handle{}, fmt.Errorf("%w: %s", ErrProcessorRejected, se.Msg)
		}
		return Handle{}, fmt.Errorf("%w: %v", ErrProcessorUnavailable, err)
	}
	return Handle{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
