package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Upload archivo recibido por multipart, ya leído en memoria.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProductInput campos de alta/edición de producto (multipart). Punteros nil = sin cambio en edición.
type ProductInput struct {
	Name          *string
	Price         *decimal.Decimal
	Description   *string
	Category      *string
	Seller        *string
	Stock         *int
	QuantityValue *decimal.Decimal
	QuantityUnit  *string
	// ImagesCleared en edición descarta las imágenes actuales antes de agregar las nuevas.
	ImagesCleared bool
	Images        []Upload
}

// QuantityDTO descriptor {value, unit}.
type QuantityDTO struct {
	Value decimal.Decimal `json:"value"`
	Unit  string          `json:"unit"`
}

// ImageDTO referencia a imagen.
type ImageDTO struct {
	ID    string `json:"_id"`
	Image string `json:"image"`
}

// ReviewerDTO autor de una reseña (poblado con el nombre).
type ReviewerDTO struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ReviewResponse reseña individual.
type ReviewResponse struct {
	ID        string          `json:"_id"`
	User      *ReviewerDTO    `json:"user"`
	Name      string          `json:"name"`
	Rating    decimal.Decimal `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string           `json:"_id"`
	Name         string           `json:"name"`
	Price        decimal.Decimal  `json:"price"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Seller       string           `json:"seller"`
	Stock        int              `json:"stock"`
	Quantity     QuantityDTO      `json:"quantity"`
	Images       []ImageDTO       `json:"images"`
	Ratings      decimal.Decimal  `json:"ratings"`
	NumOfReviews int              `json:"numOfReviews"`
	Reviews      []ReviewResponse `json:"reviews"`
	User         string           `json:"user,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ProductEnvelope {success, product}.
type ProductEnvelope struct {
	Success bool             `json:"success"`
	Product *ProductResponse `json:"product"`
}

// ProductListResponse {success, products}.
type ProductListResponse struct {
	Success  bool              `json:"success"`
	Products []ProductResponse `json:"products"`
}

// ReviewRequest alta o reemplazo de la reseña del usuario autenticado.
type ReviewRequest struct {
	ProductID string          `json:"productId"`
	Rating    decimal.Decimal `json:"rating"`
	Comment   string          `json:"comment"`
}

// ReviewListResponse {success, reviews}.
type ReviewListResponse struct {
	Success bool             `json:"success"`
	Reviews []ReviewResponse `json:"reviews"`
}

// ReviewMutationResponse resultado de crear/borrar reseña con los agregados nuevos.
type ReviewMutationResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Ratings      decimal.Decimal `json:"ratings"`
	NumOfReviews int             `json:"numOfReviews"`
}

// AdminReviewResponse reseña con datos del producto (listado de administración).
type AdminReviewResponse struct {
	ReviewResponse
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	ProductImage string `json:"productImage"`
}

// AdminReviewListResponse {success, reviews}.
type AdminReviewListResponse struct {
	Success bool                  `json:"success"`
	Reviews []AdminReviewResponse `json:"reviews"`
}
