package repository

import (
	"context"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StatusCount pedidos en un estado.
type StatusCount struct {
	Status entity.OrderStatus
	Count  int
}

// AnalyticsRepository define las consultas de lectura del dashboard de administración.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	// CountProducts devuelve el total y cuántos tienen stock 0.
	CountProducts(ctx context.Context) (total, outOfStock int, err error)
	// OrderTotals devuelve cantidad de pedidos e ingresos (COALESCE a 0).
	OrderTotals(ctx context.Context) (count int, revenue decimal.Decimal, err error)
	OrdersByStatus(ctx context.Context) ([]StatusCount, error)
}
