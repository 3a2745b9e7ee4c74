// Package payment adapta la pasarela Stripe al puerto ports.PaymentGateway.
package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/jhoicas/brownson-api/internal/application/ports"
)

var _ ports.PaymentGateway = (*StripeGateway)(nil)

// paymentIntents subconjunto del cliente de Stripe que usa el adaptador.
type paymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway crea PaymentIntents; el front confirma el pago con el client secret.
type StripeGateway struct {
	intents paymentIntents
}

// NewStripeGateway inicializa un cliente propio (sin tocar stripe.Key global).
func NewStripeGateway(secretKey string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeGateway{intents: sc.PaymentIntents}
}

// CreatePaymentIntent crea la intención por amountMinor (centavos) en currency.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := g.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("payment: crear PaymentIntent: %w", err)
	}
	return pi.ClientSecret, nil
}
