package usecase

import (
	"context"

	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/internal/domain"
)

// paymentCurrency moneda de las intenciones de pago.
const paymentCurrency = "usd"

// PaymentUseCase paso directo a la pasarela de pagos.
type PaymentUseCase struct {
	gateway ports.PaymentGateway
}

// NewPaymentUseCase construye el caso de uso. gateway nil = pagos deshabilitados.
func NewPaymentUseCase(gateway ports.PaymentGateway) *PaymentUseCase {
	return &PaymentUseCase{gateway: gateway}
}

// CreateIntent crea la intención de pago por amount (unidades menores) y devuelve el client secret.
func (uc *PaymentUseCase) CreateIntent(ctx context.Context, amount int64) (string, error) {
	if amount <= 0 {
		return "", domain.Errorf(domain.ErrInvalidInput, "Amount is required")
	}
	if uc.gateway == nil {
		return "", domain.Errorf(domain.ErrUnavailable, "Payments are not configured")
	}
	return uc.gateway.CreatePaymentIntent(ctx, amount, paymentCurrency)
}
