package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo líneas de carrito en memoria, únicas por (usuario, producto).
type CartRepo struct {
	s    *Store
	inTx bool
}

// NewCartRepository construye el repositorio sobre el store compartido.
func NewCartRepository(s *Store) *CartRepo {
	return &CartRepo{s: s}
}

func (r *CartRepo) Upsert(_ context.Context, item *entity.CartItem) (bool, error) {
	defer r.s.lockWrite(r.inTx)()
	key := cartKey{userID: item.UserID, productID: item.ProductID}
	if existing, ok := r.s.cart[key]; ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		r.s.cart[key] = copyCartItem(item)
		return false, nil
	}
	r.s.cart[key] = copyCartItem(item)
	r.s.next(item.ID)
	return true, nil
}

func (r *CartRepo) ListByUser(_ context.Context, userID string) ([]*entity.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.CartItem, 0)
	for k, v := range r.s.cart {
		if k.userID == userID {
			out = append(out, copyCartItem(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.s.order[out[i].ID] < r.s.order[out[j].ID] })
	return out, nil
}

func (r *CartRepo) Remove(_ context.Context, userID, productID string) (bool, error) {
	defer r.s.lockWrite(r.inTx)()
	key := cartKey{userID: userID, productID: productID}
	if _, ok := r.s.cart[key]; !ok {
		return false, nil
	}
	delete(r.s.cart, key)
	return true, nil
}

func (r *CartRepo) Clear(_ context.Context, userID string) error {
	defer r.s.lockWrite(r.inTx)()
	for k := range r.s.cart {
		if k.userID == userID {
			delete(r.s.cart, k)
		}
	}
	return nil
}
