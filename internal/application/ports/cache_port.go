package ports

import (
	"context"
	"time"
)

// CatalogCacheKey clave del listado público de productos. Cualquier cambio de
// stock, precio o reseñas debe borrarla.
const CatalogCacheKey = "catalog:products"

// Cache almacén clave/valor con expiración. Get devuelve hit=false si la clave no existe.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, hit bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
