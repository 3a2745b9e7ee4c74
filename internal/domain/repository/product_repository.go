package repository

import (
	"context"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create persiste el producto junto con sus imágenes.
	Create(ctx context.Context, product *entity.Product) error
	// GetByID carga imágenes y reseñas (con nombre del autor). (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// List devuelve el catálogo con imágenes, sin reseñas, más recientes primero.
	List(ctx context.Context) ([]*entity.Product, error)
	// GetByIDs devuelve los productos existentes indexados por id (ids ausentes se omiten).
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	// Search busca por nombre o categoría sin distinguir mayúsculas.
	Search(ctx context.Context, term string, limit int) ([]*entity.Product, error)
	// Update reemplaza campos editables e imágenes.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) (bool, error)
	// DecrementStock resta qty al stock sin bajar de 0.
	DecrementStock(ctx context.Context, id string, qty int) error
	// SetRatings guarda los agregados derivados de las reseñas.
	SetRatings(ctx context.Context, id string, ratings decimal.Decimal, numOfReviews int) error
}

// ReviewWithProduct reseña con datos del producto para el listado de administración.
type ReviewWithProduct struct {
	entity.Review
	ProductName  string
	ProductImage string
}

// ReviewRepository colección hija de Product: una reseña por (producto, usuario).
type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID string) ([]entity.Review, error)
	// Upsert inserta o reemplaza la reseña del usuario. created=false si reemplazó.
	Upsert(ctx context.Context, review *entity.Review) (created bool, err error)
	Delete(ctx context.Context, productID, reviewID string) (bool, error)
	ListAll(ctx context.Context) ([]ReviewWithProduct, error)
}
