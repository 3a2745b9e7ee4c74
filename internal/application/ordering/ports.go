package ordering

import (
	"context"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

// TxRunner ejecuta la creación de un pedido en una sola transacción: alta del
// pedido, descuento de stock y vaciado del carrito.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
		carts repository.CartRepository,
	) error) error
}

// ReceiptRenderer genera el comprobante PDF de un pedido.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, order *entity.Order) ([]byte, error)
}
