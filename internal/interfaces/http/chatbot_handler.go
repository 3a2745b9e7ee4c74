package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/chatbot"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/pkg/logger"
)

// ChatbotHandler asistente de la tienda. La identidad sale de OptionalAuth, no del cuerpo.
type ChatbotHandler struct {
	uc  *chatbot.UseCase
	log *logger.Logger
}

// NewChatbotHandler construye el handler.
func NewChatbotHandler(uc *chatbot.UseCase, log *logger.Logger) *ChatbotHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ChatbotHandler{uc: uc, log: log}
}

// Message godoc
// @Summary      Enviar mensaje al chatbot
// @Tags         chatbot
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatbotRequest  true  "message"
// @Success      200   {object}  dto.ChatbotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ChatbotResponse
// @Router       /api/chatbot/message [post]
func (h *ChatbotHandler) Message(c *fiber.Ctx) error {
	var in dto.ChatbotRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	reply, err := h.uc.Reply(c.Context(), GetUserID(c), in.Message)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		h.log.Error().Err(err).Str("user_id", GetUserID(c)).Msg("chatbot: fallo al responder")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ChatbotResponse{Reply: chatbot.ReplyFailure})
	}
	return c.JSON(dto.ChatbotResponse{Reply: reply})
}
