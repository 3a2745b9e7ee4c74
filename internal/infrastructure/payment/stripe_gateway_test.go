package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

type fakeIntents struct {
	got *stripe.PaymentIntentParams
	err error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret_abc"}, nil
}

func TestCreatePaymentIntent_DevuelveClientSecret(t *testing.T) {
	fake := &fakeIntents{}
	g := &StripeGateway{intents: fake}

	secret, err := g.CreatePaymentIntent(context.Background(), 4599, "usd")

	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret_abc", secret)
	require.NotNil(t, fake.got)
	assert.Equal(t, int64(4599), *fake.got.Amount)
	assert.Equal(t, "usd", *fake.got.Currency)
	assert.NotNil(t, fake.got.Context)
}

func TestCreatePaymentIntent_ErrorDeStripe(t *testing.T) {
	g := &StripeGateway{intents: &fakeIntents{err: errors.New("card_declined")}}

	_, err := g.CreatePaymentIntent(context.Background(), 100, "usd")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "card_declined")
}
