package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddToCartRequest entrada de POST /api/cart/add. Quantity llega como número JSON.
type AddToCartRequest struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

// CartProductDTO datos vivos del producto asociado a la línea.
type CartProductDTO struct {
	ID    string          `json:"_id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Stock int             `json:"stock"`
}

// CartItemResponse línea del carrito.
type CartItemResponse struct {
	ID          string          `json:"_id"`
	UserID      string          `json:"userId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Product     *CartProductDTO `json:"product"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CartAddResponse respuesta de agregar/actualizar una línea.
type CartAddResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Cart    CartItemResponse `json:"cart"`
}

// CartDTO carrito completo del usuario.
type CartDTO struct {
	User  string             `json:"user"`
	Items []CartItemResponse `json:"items"`
}

// CartResponse {success, cart:{user, items}}.
type CartResponse struct {
	Success bool    `json:"success"`
	Cart    CartDTO `json:"cart"`
}
