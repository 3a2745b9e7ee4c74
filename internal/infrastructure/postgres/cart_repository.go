package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo líneas del carrito sobre PostgreSQL. UNIQUE (user_id, product_id).
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador del carrito. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// Upsert inserta la línea o sobrescribe cantidad y precio en una sola sentencia.
func (r *CartRepo) Upsert(ctx context.Context, item *entity.CartItem) (bool, error) {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, product_name, image, quantity, price, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET product_name = EXCLUDED.product_name, image = EXCLUDED.image, quantity = EXCLUDED.quantity,
		    price = EXCLUDED.price, total_price = EXCLUDED.total_price, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted`
	var created bool
	err := r.q.QueryRow(ctx, query,
		item.ID, item.UserID, item.ProductID, item.ProductName, item.Image,
		item.Quantity, item.Price, item.TotalPrice, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID, &item.CreatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("upsert cart item: %w", err)
	}
	return created, nil
}

// ListByUser líneas del usuario en orden de alta.
func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, product_id, product_name, image, quantity, price, total_price, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()
	var list []*entity.CartItem
	for rows.Next() {
		var c entity.CartItem
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.ProductID, &c.ProductName, &c.Image,
			&c.Quantity, &c.Price, &c.TotalPrice, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Remove borra la línea (usuario, producto). false si no existía.
func (r *CartRepo) Remove(ctx context.Context, userID, productID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Clear vacía el carrito del usuario.
func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
