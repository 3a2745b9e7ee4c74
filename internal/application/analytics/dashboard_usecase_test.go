package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/application/analytics"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/jhoicas/brownson-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSummary_TiendaVacia(t *testing.T) {
	uc := analytics.NewDashboardUseCase(memory.NewAnalyticsRepository(memory.NewStore()))

	out, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.Users)
	assert.Zero(t, out.Orders)
	assert.True(t, out.Revenue.IsZero())
	assert.Len(t, out.OrdersByStatus, len(entity.OrderStatuses), "todos los estados aparecen con 0")
	for _, st := range entity.OrderStatuses {
		assert.Equal(t, 0, out.OrdersByStatus[string(st)])
	}
}

func TestGetSummary_Agregados(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	users := memory.NewUserRepository(s)
	products := memory.NewProductRepository(s)
	orders := memory.NewOrderRepository(s)

	for _, email := range []string{"a@b.co", "c@d.co"} {
		require.NoError(t, users.Create(ctx, &entity.User{ID: uuid.New().String(), Email: email, Role: entity.RoleUser}))
	}
	for _, stock := range []int{0, 3, 0} {
		require.NoError(t, products.Create(ctx, &entity.Product{ID: uuid.New().String(), Name: "p", Stock: stock}))
	}
	for _, o := range []struct {
		total  string
		status entity.OrderStatus
	}{
		{"10.005", entity.OrderPacking},
		{"20", entity.OrderPacking},
		{"5.10", entity.OrderHandedOver},
	} {
		require.NoError(t, orders.Create(ctx, &entity.Order{
			ID:          uuid.New().String(),
			TotalPrice:  decimal.RequireFromString(o.total),
			OrderStatus: o.status,
		}))
	}

	out, err := analytics.NewDashboardUseCase(memory.NewAnalyticsRepository(s)).GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Users)
	assert.Equal(t, 3, out.Products)
	assert.Equal(t, 2, out.OutOfStock)
	assert.Equal(t, 3, out.Orders)
	assert.Equal(t, "35.11", out.Revenue.String(), "los ingresos se redondean a 2 decimales")
	assert.Equal(t, 2, out.OrdersByStatus["packing"])
	assert.Equal(t, 1, out.OrdersByStatus["handed over"])
	assert.Equal(t, 0, out.OrdersByStatus["shipping"])
}

type brokenAnalytics struct {
	repository.AnalyticsRepository
}

func (brokenAnalytics) OrdersByStatus(context.Context) ([]repository.StatusCount, error) {
	return nil, errors.New("consulta fallida")
}

func TestGetSummary_PropagaErrores(t *testing.T) {
	repo := brokenAnalytics{memory.NewAnalyticsRepository(memory.NewStore())}
	_, err := analytics.NewDashboardUseCase(repo).GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pedidos por estado")
}
