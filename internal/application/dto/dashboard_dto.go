package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/admin/dashboard/summary.
type DashboardSummaryDTO struct {
	Users          int             `json:"users"`
	Products       int             `json:"products"`
	OutOfStock     int             `json:"outOfStock"`
	Orders         int             `json:"orders"`
	Revenue        decimal.Decimal `json:"revenue"`
	OrdersByStatus map[string]int  `json:"ordersByStatus"`
}

// DashboardResponse {success, summary}.
type DashboardResponse struct {
	Success bool                `json:"success"`
	Summary DashboardSummaryDTO `json:"summary"`
}
