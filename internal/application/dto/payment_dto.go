package dto

// PaymentIntentRequest monto en unidades menores (centavos).
type PaymentIntentRequest struct {
	Amount int64 `json:"amount"`
}

// PaymentIntentResponse secreto de cliente para confirmar el pago en el navegador.
type PaymentIntentResponse struct {
	Success      bool   `json:"success"`
	ClientSecret string `json:"clientSecret"`
}
