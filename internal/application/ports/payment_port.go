package ports

import "context"

// PaymentGateway crea intenciones de pago en la pasarela externa.
type PaymentGateway interface {
	// CreatePaymentIntent devuelve el client secret para confirmar el pago en el navegador.
	CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string) (clientSecret string, err error)
}
