package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria. El email es único.
type UserRepo struct {
	s    *Store
	inTx bool
}

// NewUserRepository construye el repositorio sobre el store compartido.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.s.lockWrite(r.inTx)()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	r.s.users[user.ID] = copyUser(user)
	r.s.next(user.ID)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyUser(r.s.users[id]), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	r.s.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return r.s.order[out[i].ID] > r.s.order[out[j].ID] })
	return out, nil
}

// Delete elimina el usuario con sus líneas de carrito; sus reseñas quedan sin autor.
func (r *UserRepo) Delete(_ context.Context, id string) (bool, error) {
	defer r.s.lockWrite(r.inTx)()
	if _, ok := r.s.users[id]; !ok {
		return false, nil
	}
	delete(r.s.users, id)
	for k := range r.s.cart {
		if k.userID == id {
			delete(r.s.cart, k)
		}
	}
	for pid, reviews := range r.s.reviews {
		for i := range reviews {
			if reviews[i].UserID == id {
				reviews[i].UserID = ""
			}
		}
		r.s.reviews[pid] = reviews
	}
	return true, nil
}
