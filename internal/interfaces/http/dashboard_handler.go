package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/brownson-api/internal/application/analytics"
	"github.com/jhoicas/brownson-api/internal/application/dto"
)

// DashboardHandler maneja el resumen del panel de administración.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los totales de la tienda.
// GET /api/admin/dashboard/summary
//
// Respuesta: usuarios, productos, productos sin stock, pedidos, ingresos y
// pedidos por estado (todos los estados presentes, aunque sea con 0).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.DashboardResponse{Success: true, Summary: *summary})
}
