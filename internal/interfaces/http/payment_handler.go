package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
)

// PaymentHandler paso directo a la pasarela de pagos.
type PaymentHandler struct {
	uc *usecase.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// CreateIntent godoc
// @Summary      Crear intención de pago (USD, unidades menores)
// @Tags         payment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentIntentRequest  true  "amount"
// @Success      200   {object}  dto.PaymentIntentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/payment/create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var in dto.PaymentIntentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	secret, err := h.uc.CreateIntent(c.Context(), in.Amount)
	if err != nil {
		return err
	}
	return c.JSON(dto.PaymentIntentResponse{Success: true, ClientSecret: secret})
}
