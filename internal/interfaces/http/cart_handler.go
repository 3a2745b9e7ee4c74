package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
)

// CartHandler carrito del usuario autenticado.
type CartHandler struct {
	uc *usecase.CartUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *usecase.CartUseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Add godoc
// @Summary      Agregar o actualizar producto en el carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "productId, quantity"
// @Success      200   {object}  dto.CartAddResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cart/add [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	item, msg, err := h.uc.Add(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.CartAddResponse{Success: true, Message: msg, Cart: *item})
}

// Get godoc
// @Summary      Carrito del usuario
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	cart, err := h.uc.Get(c.Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.CartResponse{Success: true, Cart: *cart})
}

// Remove godoc
// @Summary      Quitar producto del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/remove/{productId} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	if err := h.uc.Remove(c.Context(), GetUserID(c), c.Params("productId")); err != nil {
		return err
	}
	return c.JSON(dto.OK(usecase.MsgCartRemoved))
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/cart/clear [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.uc.Clear(c.Context(), GetUserID(c)); err != nil {
		return err
	}
	return c.JSON(dto.OK(usecase.MsgCartCleared))
}
