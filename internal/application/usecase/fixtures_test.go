package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// repos repositorios en memoria sobre un mismo store.
type repos struct {
	store    *memory.Store
	users    *memory.UserRepo
	products *memory.ProductRepo
	reviews  *memory.ReviewRepo
	carts    *memory.CartRepo
	tx       *memory.TxRunner
}

func newRepos() *repos {
	s := memory.NewStore()
	return &repos{
		store:    s,
		users:    memory.NewUserRepository(s),
		products: memory.NewProductRepository(s),
		reviews:  memory.NewReviewRepository(s),
		carts:    memory.NewCartRepository(s),
		tx:       memory.NewTxRunner(s),
	}
}

func (r *repos) seedProduct(t *testing.T, name, price string, stock int) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Price:       decimal.RequireFromString(price),
		Description: "descripción de " + name,
		Category:    entity.CategoryJellies,
		Seller:      "Brownson",
		Stock:       stock,
		Quantity:    entity.Quantity{Value: decimal.NewFromInt(100), Unit: entity.UnitG},
		Images:      []entity.ProductImage{{ID: uuid.New().String(), URL: "/img/product/" + name + ".jpg"}},
		Ratings:     decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, r.products.Create(context.Background(), p))
	return p
}

func (r *repos) seedUser(t *testing.T, name, email string, role entity.Role) *entity.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, r.users.Create(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
