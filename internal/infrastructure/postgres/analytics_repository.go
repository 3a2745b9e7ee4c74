package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el panel de administración.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// CountUsers cantidad de cuentas registradas.
func (r *AnalyticsRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("analytics.CountUsers: %w", err)
	}
	return n, nil
}

// CountProducts total del catálogo y productos agotados.
func (r *AnalyticsRepo) CountProducts(ctx context.Context) (int, int, error) {
	var total, out int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE stock = 0)
		FROM products`).Scan(&total, &out)
	if err != nil {
		return 0, 0, fmt.Errorf("analytics.CountProducts: %w", err)
	}
	return total, out, nil
}

// OrderTotals cantidad de pedidos e ingresos acumulados.
func (r *AnalyticsRepo) OrderTotals(ctx context.Context) (int, decimal.Decimal, error) {
	var count int
	var revenue decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0)
		FROM orders`).Scan(&count, &revenue)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("analytics.OrderTotals: %w", err)
	}
	return count, revenue, nil
}

// OrdersByStatus pedidos agrupados por estado.
func (r *AnalyticsRepo) OrdersByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT order_status, COUNT(*)
		FROM orders
		GROUP BY order_status
		ORDER BY order_status`)
	if err != nil {
		return nil, fmt.Errorf("analytics.OrdersByStatus: %w", err)
	}
	defer rows.Close()

	var results []repository.StatusCount
	for rows.Next() {
		var row repository.StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, fmt.Errorf("analytics.OrdersByStatus scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
