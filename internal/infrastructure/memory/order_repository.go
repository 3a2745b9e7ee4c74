package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.OrderRepository     = (*OrderRepo)(nil)
	_ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)
)

// OrderRepo pedidos en memoria.
type OrderRepo struct {
	s    *Store
	inTx bool
}

// NewOrderRepository construye el repositorio sobre el store compartido.
func NewOrderRepository(s *Store) *OrderRepo {
	return &OrderRepo{s: s}
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	defer r.s.lockWrite(r.inTx)()
	r.s.orders[o.ID] = copyOrder(o)
	r.s.next(o.ID)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyOrder(r.s.orders[id]), nil
}

func (r *OrderRepo) ListByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.ordersWhere(func(o *entity.Order) bool { return o.User.UserID == userID }), nil
}

func (r *OrderRepo) LatestByUser(ctx context.Context, userID string) (*entity.Order, error) {
	orders, _ := r.ListByUser(ctx, userID)
	if len(orders) == 0 {
		return nil, nil
	}
	return orders[0], nil
}

func (r *OrderRepo) ListAll(_ context.Context) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.ordersWhere(func(*entity.Order) bool { return true }), nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	defer r.s.lockWrite(r.inTx)()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	o.OrderStatus = status
	o.UpdatedAt = time.Now().UTC()
	return copyOrder(o), nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) (bool, error) {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.orders[id]; !ok {
		return false, nil
	}
	delete(r.s.orders, id)
	return true, nil
}

// ordersWhere filtra y ordena del más reciente al más antiguo. Requiere mu tomado.
func (s *Store) ordersWhere(keep func(*entity.Order) bool) []*entity.Order {
	out := make([]*entity.Order, 0)
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] > s.order[out[j].ID] })
	return out
}

// AnalyticsRepo consultas del dashboard sobre el store en memoria.
type AnalyticsRepo struct {
	s *Store
}

// NewAnalyticsRepository construye el repositorio sobre el store compartido.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo {
	return &AnalyticsRepo{s: s}
}

func (r *AnalyticsRepo) CountUsers(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

func (r *AnalyticsRepo) CountProducts(_ context.Context) (int, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := 0
	for _, p := range r.s.products {
		if p.Stock <= 0 {
			out++
		}
	}
	return len(r.s.products), out, nil
}

func (r *AnalyticsRepo) OrderTotals(_ context.Context) (int, decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	revenue := decimal.Zero
	for _, o := range r.s.orders {
		revenue = revenue.Add(o.TotalPrice)
	}
	return len(r.s.orders), revenue, nil
}

func (r *AnalyticsRepo) OrdersByStatus(_ context.Context) ([]repository.StatusCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[entity.OrderStatus]int{}
	for _, o := range r.s.orders {
		counts[o.OrderStatus]++
	}
	out := make([]repository.StatusCount, 0, len(counts))
	for _, st := range entity.OrderStatuses {
		if n, ok := counts[st]; ok {
			out = append(out, repository.StatusCount{Status: st, Count: n})
		}
	}
	return out, nil
}
