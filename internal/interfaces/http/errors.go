package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/pkg/logger"
)

// MsgInternal mensaje genérico para errores no clasificados.
const MsgInternal = "Internal Server Error"

// MsgRouteNotFound respuesta de rutas /api inexistentes.
const MsgRouteNotFound = "API Route Not Found"

// errorKinds orden de evaluación de los errores de dominio.
var errorKinds = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrConflict, fiber.StatusBadRequest, "CONFLICT"},
	{domain.ErrTokenExpired, fiber.StatusUnauthorized, "TOKEN_EXPIRED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnavailable, fiber.StatusServiceUnavailable, "UNAVAILABLE"},
}

// ErrorHandler traduce cualquier error devuelto por un handler al sobre JSON
// {success:false, code, message, error}. Los errores desconocidos se registran y
// se responden como 500 sin exponer el detalle.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("error en la petición")
		}
		return c.Status(status).JSON(body)
	}
}

func classify(err error) (int, dto.ErrorResponse) {
	for _, k := range errorKinds {
		if errors.Is(err, k.kind) {
			return k.status, dto.NewErrorResponse(k.code, domain.PublicMessage(err, k.kind.Error()))
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch {
		case fe.Code == fiber.StatusNotFound:
			return fe.Code, dto.NewErrorResponse("NOT_FOUND", MsgRouteNotFound)
		case fe.Code < fiber.StatusInternalServerError:
			return fe.Code, dto.NewErrorResponse("HTTP_ERROR", fe.Message)
		}
	}
	return fiber.StatusInternalServerError, dto.NewErrorResponse("INTERNAL", MsgInternal)
}

// invalidBody error estándar cuando el cuerpo no se puede decodificar.
func invalidBody() error {
	return domain.Errorf(domain.ErrInvalidInput, "Invalid request body")
}
