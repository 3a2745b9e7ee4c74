package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/brownson-api/internal/application/ordering"
	"github.com/jhoicas/brownson-api/internal/application/usecase"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

// Ensure TxRunner implements ordering.TxRunner and usecase.ReviewTxRunner.
var _ ordering.TxRunner = (*TxRunner)(nil)
var _ usecase.ReviewTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunOrder inicia una transacción con repos de pedidos, productos y carrito (alta de pedido).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewProductRepository(tx), NewCartRepository(tx))
	})
}

// RunReview inicia una transacción con repos de productos y reseñas.
func (r *TxRunner) RunReview(ctx context.Context, fn func(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewReviewRepository(tx))
	})
}

// run hace Begin, ejecuta fn y Commit; cualquier error provoca Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
