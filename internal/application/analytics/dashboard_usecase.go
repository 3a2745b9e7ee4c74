// Package analytics contiene el resumen del panel de administración.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DashboardUseCase genera el resumen de la tienda.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. CountUsers      → Users
//  2. CountProducts   → Products + OutOfStock
//  3. OrderTotals     → Orders + Revenue
//  4. OrdersByStatus  → OrdersByStatus
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type countResult struct {
		n   int
		err error
	}
	type productsResult struct {
		total, outOfStock int
		err               error
	}
	type totalsResult struct {
		count   int
		revenue decimal.Decimal
		err     error
	}
	type statusResult struct {
		counts []repository.StatusCount
		err    error
	}

	usersCh := make(chan countResult, 1)
	productsCh := make(chan productsResult, 1)
	totalsCh := make(chan totalsResult, 1)
	statusCh := make(chan statusResult, 1)

	go func() {
		n, err := uc.analyticsRepo.CountUsers(ctx)
		usersCh <- countResult{n, err}
	}()
	go func() {
		total, out, err := uc.analyticsRepo.CountProducts(ctx)
		productsCh <- productsResult{total, out, err}
	}()
	go func() {
		count, revenue, err := uc.analyticsRepo.OrderTotals(ctx)
		totalsCh <- totalsResult{count, revenue, err}
	}()
	go func() {
		counts, err := uc.analyticsRepo.OrdersByStatus(ctx)
		statusCh <- statusResult{counts, err}
	}()

	users := <-usersCh
	products := <-productsCh
	totals := <-totalsCh
	status := <-statusCh

	if users.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios: %w", users.err)
	}
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if totals.err != nil {
		return nil, fmt.Errorf("dashboard: totales de pedidos: %w", totals.err)
	}
	if status.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos por estado: %w", status.err)
	}

	// Todos los estados aparecen, aunque tengan 0 pedidos.
	byStatus := make(map[string]int, len(entity.OrderStatuses))
	for _, st := range entity.OrderStatuses {
		byStatus[string(st)] = 0
	}
	for _, sc := range status.counts {
		byStatus[string(sc.Status)] += sc.Count
	}

	return &dto.DashboardSummaryDTO{
		Users:          users.n,
		Products:       products.total,
		OutOfStock:     products.outOfStock,
		Orders:         totals.count,
		Revenue:        totals.revenue.Round(2),
		OrdersByStatus: byStatus,
	}, nil
}
