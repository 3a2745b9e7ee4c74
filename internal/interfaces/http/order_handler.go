package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/ordering"
)

// OrderHandler pedidos del cliente y administración de pedidos.
type OrderHandler struct {
	uc *ordering.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *ordering.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido (precios recalculados desde el catálogo)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "productos y datos de envío"
// @Success      201   {object}  dto.OrderEnvelope
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/order/create [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	out, err := h.uc.Create(c.Context(), user, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OrderEnvelope{Success: true, Order: out})
}

// MyOrders godoc
// @Summary      Pedidos del usuario (más recientes primero)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/order/my-orders [get]
func (h *OrderHandler) MyOrders(c *fiber.Ctx) error {
	out, err := h.uc.MyOrders(c.Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.OrderListResponse{Success: true, Orders: out})
}

// GetByID godoc
// @Summary      Pedido propio por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderEnvelope
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/order/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OrderEnvelope{Success: true, Order: out})
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido propio
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    file
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/order/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	pdf, filename, err := h.uc.Receipt(c.Context(), user, c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

// AdminGet godoc
// @Summary      Pedido por ID sin comprobar el dueño
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderEnvelope
// @Router       /api/order/admin/order/{id} [get]
func (h *OrderHandler) AdminGet(c *fiber.Ctx) error {
	out, err := h.uc.AdminGet(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OrderEnvelope{Success: true, Order: out})
}

// AdminList godoc
// @Summary      Todos los pedidos con el monto total
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/order/admin/orders [get]
func (h *OrderHandler) AdminList(c *fiber.Ctx) error {
	out, total, err := h.uc.AdminList(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.OrderListResponse{Success: true, Orders: out, TotalAmount: &total})
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        orderId  path  string                        true  "ID del pedido"
// @Param        body     body  dto.UpdateOrderStatusRequest  true  "status u orderStatus"
// @Success      200      {object}  dto.OrderEnvelope
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/order/{orderId}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	out, err := h.uc.UpdateStatus(c.Context(), c.Params("orderId"), in.Value())
	if err != nil {
		return err
	}
	return c.JSON(dto.OrderEnvelope{Success: true, Message: "Order status updated", Order: out})
}

// Delete godoc
// @Summary      Eliminar pedido
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/order/admin/order/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("Order deleted"))
}
