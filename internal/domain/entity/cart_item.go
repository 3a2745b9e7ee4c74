package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem línea del carrito. Única por (UserID, ProductID).
// Price se captura al agregar; TotalPrice = Price × Quantity.
type CartItem struct {
	ID          string
	UserID      string
	ProductID   string
	ProductName string
	Image       string
	Quantity    int
	Price       decimal.Decimal
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Product datos vivos del catálogo al leer el carrito; nil si el producto ya no existe.
	Product *Product
}

// Recalculate actualiza TotalPrice a partir de Price y Quantity.
func (c *CartItem) Recalculate() {
	c.TotalPrice = c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
