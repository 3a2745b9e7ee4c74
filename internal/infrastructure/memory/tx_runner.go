package memory

import (
	"context"

	"github.com/jhoicas/brownson-api/internal/application/ordering"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

var (
	_ ordering.TxRunner      = (*TxRunner)(nil)
	_ usecase.ReviewTxRunner = (*TxRunner)(nil)
)

// TxRunner serializa las "transacciones" en memoria. Si fn falla, el store vuelve
// a la foto tomada al inicio. Mientras fn corre, las escrituras hechas con
// repositorios comunes esperan, de modo que la foto solo revierte lo que hizo fn.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store compartido.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunOrder ejecuta fn con los repos de pedidos, productos y carrito.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
) error) error {
	return r.run(func() error {
		return fn(&OrderRepo{s: r.s, inTx: true}, &ProductRepo{s: r.s, inTx: true}, &CartRepo{s: r.s, inTx: true})
	})
}

// RunReview ejecuta fn con los repos de productos y reseñas.
func (r *TxRunner) RunReview(ctx context.Context, fn func(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
) error) error {
	return r.run(func() error {
		return fn(&ProductRepo{s: r.s, inTx: true}, &ReviewRepo{s: r.s, inTx: true})
	})
}

func (r *TxRunner) run(fn func() error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	snap := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}
