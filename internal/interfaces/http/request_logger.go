package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/pkg/logger"
)

// HTTPObserver recibe la duración de cada petición. Lo implementa *metrics.Metrics.
type HTTPObserver interface {
	ObserveHTTP(method, route, status string, elapsed time.Duration)
}

// RequestLogger registra método, ruta, status, latencia y usuario de cada petición.
// Resuelve aquí el error de la cadena para conocer el status final; observer es opcional.
func RequestLogger(log *logger.Logger, observer HTTPObserver) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		if observer != nil {
			observer.ObserveHTTP(c.Method(), c.Route().Path, strconv.Itoa(status), elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("user_id", GetUserID(c)).
			Msg("petición")
		return nil
	}
}
