package payment

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

var (
	// ErrNotConfigured is returned when no Stripe secret key is set.
	ErrNotConfigured = errors.New("stripe secret key not configured")
	// ErrInvalidAmount is returned for zero or negative charge amounts.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Intent is the subset of a payment intent the checkout flow needs: the id to
// record on the order and the client secret for the hosted card widget.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentClient creates payment intents.
type IntentClient interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
}

type stripeClient struct {
	logger *log.Logger
}

// NewStripe configures the Stripe SDK with the given secret key. An empty key
// yields a client that rejects every call with ErrNotConfigured.
func NewStripe(secretKey string, logger *log.Logger) IntentClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	stripe.Key = secretKey
	return &stripeClient{logger: logger}
}

func (c *stripeClient) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error) {
	if stripe.Key == "" {
		return nil, ErrNotConfigured
	}
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = "eur"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		c.logger.Printf("payment: create intent amount_cents=%d error=%v", amountCents, err)
		return nil, err
	}
	c.logger.Printf("payment: created intent id=%s amount_cents=%d", pi.ID, amountCents)
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
