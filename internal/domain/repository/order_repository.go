package repository

import (
	"context"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// ListByUser pedidos del comprador, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]*entity.Order, error)
	// LatestByUser el pedido más reciente o (nil, nil).
	LatestByUser(ctx context.Context, userID string) (*entity.Order, error)
	ListAll(ctx context.Context) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	Delete(ctx context.Context, id string) (bool, error)
}
