package repository

import (
	"context"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia para las líneas del carrito.
type CartRepository interface {
	// Upsert crea o sobrescribe la línea (UserID, ProductID) de forma atómica.
	// created=true si la línea no existía. La cantidad se reemplaza, no se suma.
	Upsert(ctx context.Context, item *entity.CartItem) (created bool, err error)
	ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error)
	Remove(ctx context.Context, userID, productID string) (bool, error)
	Clear(ctx context.Context, userID string) error
}
