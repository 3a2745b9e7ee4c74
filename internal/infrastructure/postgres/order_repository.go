package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, username, delivery_address, contact_number, total_price,
	payment_status, order_status, created_at, updated_at`

// OrderRepo pedidos sobre PostgreSQL. Las líneas viven en order_lines.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste cabecera y líneas del pedido.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (` + orderColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		_, err := tx.Exec(ctx, query,
			order.ID, nullable(order.User.UserID), order.User.Username, order.User.DeliveryAddress,
			order.User.ContactNumber, order.TotalPrice, order.PaymentStatus, order.OrderStatus,
			order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		batch := &pgx.Batch{}
		for i, l := range order.Products {
			batch.Queue(`
				INSERT INTO order_lines (order_id, line_no, product_id, product_name, image, quantity, price)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				order.ID, i, l.ProductID, l.ProductName, l.Image, l.Quantity, l.Price,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert order lines: %w", err)
		}
		return nil
	})
}

// GetByID obtiene el pedido con sus líneas. (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.attachLines(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// ListByUser pedidos del comprador, más recientes primero.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
}

// LatestByUser el pedido más reciente del comprador o (nil, nil).
func (r *OrderRepo) LatestByUser(ctx context.Context, userID string) (*entity.Order, error) {
	list, err := r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT 1`, userID)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// ListAll todos los pedidos, más recientes primero.
func (r *OrderRepo) ListAll(ctx context.Context) ([]*entity.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id`)
}

// UpdateStatus cambia el estado y devuelve el pedido actualizado; (nil, nil) si no existe.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `
		UPDATE orders SET order_status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if err := r.attachLines(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete borra el pedido; las líneas caen en cascada.
func (r *OrderRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachLines carga las líneas de todos los pedidos con una sola consulta.
func (r *OrderRepo) attachLines(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Products = []entity.OrderLine{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, product_name, image, quantity, price
		FROM order_lines
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var l entity.OrderLine
		if err := rows.Scan(&orderID, &l.ProductID, &l.ProductName, &l.Image, &l.Quantity, &l.Price); err != nil {
			return fmt.Errorf("scan order line: %w", err)
		}
		if o, ok := byID[orderID]; ok {
			o.Products = append(o.Products, l)
		}
	}
	return rows.Err()
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	var userID *string
	err := row.Scan(
		&o.ID, &userID, &o.User.Username, &o.User.DeliveryAddress, &o.User.ContactNumber,
		&o.TotalPrice, &o.PaymentStatus, &o.OrderStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.User.UserID = deref(userID)
	return &o, nil
}
