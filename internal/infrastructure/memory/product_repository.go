package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.ReviewRepository  = (*ReviewRepo)(nil)
)

// ProductRepo catálogo en memoria.
type ProductRepo struct {
	s    *Store
	inTx bool
}

// NewProductRepository construye el repositorio sobre el store compartido.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{s: s}
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	c := copyProduct(p)
	c.Reviews = nil
	r.s.products[p.ID] = c
	r.s.next(p.ID)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	out := copyProduct(p)
	out.Reviews = r.s.populatedReviews(id)
	return out, nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, copyProduct(p))
	}
	r.s.sortNewestFirst(out)
	return out, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out[id] = copyProduct(p)
		}
	}
	return out, nil
}

// Search coincidencias por nombre primero, luego por categoría.
func (r *ProductRepo) Search(_ context.Context, term string, limit int) ([]*entity.Product, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var byName, byCategory []*entity.Product
	for _, p := range r.s.products {
		switch {
		case strings.Contains(strings.ToLower(p.Name), term):
			byName = append(byName, copyProduct(p))
		case strings.Contains(strings.ToLower(string(p.Category)), term):
			byCategory = append(byCategory, copyProduct(p))
		}
	}
	r.s.sortNewestFirst(byName)
	r.s.sortNewestFirst(byCategory)
	out := append(byName, byCategory...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite(r.inTx)()
	existing, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := copyProduct(p)
	c.Reviews = nil
	c.Ratings = existing.Ratings
	c.NumOfReviews = existing.NumOfReviews
	c.CreatedAt = existing.CreatedAt
	r.s.products[p.ID] = c
	return nil
}

// Delete elimina el producto, sus reseñas y las líneas de carrito que lo referencian.
func (r *ProductRepo) Delete(_ context.Context, id string) (bool, error) {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.products[id]; !ok {
		return false, nil
	}
	delete(r.s.products, id)
	delete(r.s.reviews, id)
	for k := range r.s.cart {
		if k.productID == id {
			delete(r.s.cart, k)
		}
	}
	return true, nil
}

func (r *ProductRepo) DecrementStock(_ context.Context, id string, qty int) error {
	defer r.s.lockWrite(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

func (r *ProductRepo) SetRatings(_ context.Context, id string, ratings decimal.Decimal, n int) error {
	defer r.s.lockWrite(r.inTx)()
	if p, ok := r.s.products[id]; ok {
		p.Ratings = ratings
		p.NumOfReviews = n
	}
	return nil
}

// ReviewRepo reseñas en memoria, indexadas por producto.
type ReviewRepo struct {
	s    *Store
	inTx bool
}

// NewReviewRepository construye el repositorio sobre el store compartido.
func NewReviewRepository(s *Store) *ReviewRepo {
	return &ReviewRepo{s: s}
}

func (r *ReviewRepo) ListByProduct(_ context.Context, productID string) ([]entity.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.populatedReviews(productID), nil
}

func (r *ReviewRepo) Upsert(_ context.Context, review *entity.Review) (bool, error) {
	defer r.s.lockWrite(r.inTx)()
	updated, replaced := entity.UpsertReview(r.s.reviews[review.ProductID], *review)
	r.s.reviews[review.ProductID] = updated
	for _, rv := range updated {
		if rv.UserID == review.UserID {
			*review = rv
		}
	}
	return !replaced, nil
}

func (r *ReviewRepo) Delete(_ context.Context, productID, reviewID string) (bool, error) {
	defer r.s.lockWrite(r.inTx)()
	updated, ok := entity.RemoveReview(r.s.reviews[productID], reviewID)
	if ok {
		r.s.reviews[productID] = updated
	}
	return ok, nil
}

func (r *ReviewRepo) ListAll(_ context.Context) ([]repository.ReviewWithProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []repository.ReviewWithProduct
	for pid := range r.s.reviews {
		p, ok := r.s.products[pid]
		if !ok {
			continue
		}
		for _, rv := range r.s.populatedReviews(pid) {
			out = append(out, repository.ReviewWithProduct{Review: rv, ProductName: p.Name, ProductImage: p.FirstImage()})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// populatedReviews copia las reseñas del producto con el nombre vigente del autor. Requiere mu tomado.
func (s *Store) populatedReviews(productID string) []entity.Review {
	src := s.reviews[productID]
	out := make([]entity.Review, 0, len(src))
	for _, rv := range src {
		if u, ok := s.users[rv.UserID]; ok {
			rv.UserName = u.Name
		}
		out = append(out, rv)
	}
	return out
}

// sortNewestFirst ordena por secuencia de inserción descendente. Requiere mu tomado.
func (s *Store) sortNewestFirst(products []*entity.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return s.order[products[i].ID] > s.order[products[j].ID]
	})
}
