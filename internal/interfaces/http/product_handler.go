package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	"github.com/shopspring/decimal"
)

// ProductHandler catálogo público, administración de productos y reseñas.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/product/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductListResponse{Success: true, Products: out})
}

// GetByID godoc
// @Summary      Obtener producto por ID (con reseñas)
// @Tags         products
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductEnvelope
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/product/product/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductEnvelope{Success: true, Product: out})
}

// Create godoc
// @Summary      Crear producto (multipart, archivos en images)
// @Tags         admin
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  dto.ProductEnvelope
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/product/admin/product/new [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	in, err := productInput(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProductEnvelope{Success: true, Product: out})
}

// Update godoc
// @Summary      Editar producto (multipart; imagesCleared=true reemplaza las imágenes)
// @Tags         admin
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductEnvelope
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/product/admin/product/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	in, err := productInput(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(dto.ProductEnvelope{Success: true, Product: out})
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/product/admin/product/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("Product deleted"))
}

// ListReviews godoc
// @Summary      Reseñas de un producto
// @Tags         reviews
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReviewListResponse
// @Router       /api/product/reviews/{id} [get]
func (h *ProductHandler) ListReviews(c *fiber.Ctx) error {
	out, err := h.uc.ListReviews(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ReviewListResponse{Success: true, Reviews: out})
}

// UpsertReview godoc
// @Summary      Crear o reemplazar la reseña propia
// @Tags         reviews
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReviewRequest  true  "productId, rating, comment"
// @Success      200   {object}  dto.ReviewMutationResponse
// @Router       /api/product/review [post]
func (h *ProductHandler) UpsertReview(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var in dto.ReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	out, err := h.uc.UpsertReview(c.Context(), user, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DeleteReview godoc
// @Summary      Eliminar reseña
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        productId  query  string  true  "ID del producto"
// @Param        id         query  string  true  "ID de la reseña"
// @Success      200  {object}  dto.ReviewMutationResponse
// @Router       /api/product/review [delete]
func (h *ProductHandler) DeleteReview(c *fiber.Ctx) error {
	out, err := h.uc.DeleteReview(c.Context(), c.Query("productId"), c.Query("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListAllReviews godoc
// @Summary      Todas las reseñas con su producto
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AdminReviewListResponse
// @Router       /api/product/admin/reviews [get]
func (h *ProductHandler) ListAllReviews(c *fiber.Ctx) error {
	out, err := h.uc.ListAllReviews(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.AdminReviewListResponse{Success: true, Reviews: out})
}

// productJSON variante JSON del formulario de producto (sin imágenes).
type productJSON struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Seller      *string          `json:"seller"`
	Stock       *int             `json:"stock"`
	Quantity    *struct {
		Value *decimal.Decimal `json:"value"`
		Unit  *string          `json:"unit"`
	} `json:"quantity"`
	ImagesCleared bool `json:"imagesCleared"`
}

// productInput lee el formulario multipart (o JSON) de alta/edición.
func productInput(c *fiber.Ctx) (dto.ProductInput, error) {
	if c.Is("json") {
		var body productJSON
		if err := c.BodyParser(&body); err != nil {
			return dto.ProductInput{}, invalidBody()
		}
		in := dto.ProductInput{
			Name: body.Name, Price: body.Price, Description: body.Description,
			Category: body.Category, Seller: body.Seller, Stock: body.Stock,
			ImagesCleared: body.ImagesCleared,
		}
		if body.Quantity != nil {
			in.QuantityValue = body.Quantity.Value
			in.QuantityUnit = body.Quantity.Unit
		}
		return in, nil
	}

	in := dto.ProductInput{
		Name:         formString(c, "name"),
		Description:  formString(c, "description"),
		Category:     formString(c, "category"),
		Seller:       formString(c, "seller"),
		QuantityUnit: formString(c, "quantity[unit]"),
	}
	var err error
	if in.Price, err = formDecimal(c, "price", "price"); err != nil {
		return in, err
	}
	if in.Stock, err = formInt(c, "stock", "stock"); err != nil {
		return in, err
	}
	if in.QuantityValue, err = formDecimal(c, "quantity[value]", "quantity value"); err != nil {
		return in, err
	}
	if v := formString(c, "imagesCleared"); v != nil && *v == "true" {
		in.ImagesCleared = true
	}
	if in.Images, err = formFiles(c, "images"); err != nil {
		return in, err
	}
	return in, nil
}
