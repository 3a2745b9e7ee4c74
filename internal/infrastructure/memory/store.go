// Package memory implementa los puertos de persistencia en memoria.
// Se usa con DB_DRIVER=memory (demos locales) y en los tests de casos de uso y HTTP.
package memory

import (
	"sync"

	"github.com/jhoicas/brownson-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex
	// txMu lo retiene la transacción en curso durante todo fn. Las escrituras
	// fuera de ella lo esperan, así un rollback nunca pisa datos ajenos.
	txMu sync.Mutex
	seq  int64

	users    map[string]*entity.User
	products map[string]*entity.Product
	reviews  map[string][]entity.Review // por product_id
	cart     map[cartKey]*entity.CartItem
	orders   map[string]*entity.Order
	order    map[string]int64 // id -> secuencia de inserción, para ordenar de forma estable
}

type cartKey struct {
	userID    string
	productID string
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:    map[string]*entity.User{},
		products: map[string]*entity.Product{},
		reviews:  map[string][]entity.Review{},
		cart:     map[cartKey]*entity.CartItem{},
		orders:   map[string]*entity.Order{},
		order:    map[string]int64{},
	}
}

// next asigna la secuencia de inserción de id. Requiere mu tomado en escritura.
func (s *Store) next(id string) {
	s.seq++
	s.order[id] = s.seq
}

// lockWrite toma mu en escritura; fuera de una transacción espera además a que
// termine la transacción en curso. Devuelve la función que libera ambos.
func (s *Store) lockWrite(inTx bool) func() {
	if !inTx {
		s.txMu.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if !inTx {
			s.txMu.Unlock()
		}
	}
}

type snapshot struct {
	users    map[string]*entity.User
	products map[string]*entity.Product
	reviews  map[string][]entity.Review
	cart     map[cartKey]*entity.CartItem
	orders   map[string]*entity.Order
	order    map[string]int64
	seq      int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := snapshot{
		users:    make(map[string]*entity.User, len(s.users)),
		products: make(map[string]*entity.Product, len(s.products)),
		reviews:  make(map[string][]entity.Review, len(s.reviews)),
		cart:     make(map[cartKey]*entity.CartItem, len(s.cart)),
		orders:   make(map[string]*entity.Order, len(s.orders)),
		order:    make(map[string]int64, len(s.order)),
		seq:      s.seq,
	}
	for k, v := range s.users {
		snap.users[k] = copyUser(v)
	}
	for k, v := range s.products {
		snap.products[k] = copyProduct(v)
	}
	for k, v := range s.reviews {
		snap.reviews[k] = append([]entity.Review(nil), v...)
	}
	for k, v := range s.cart {
		snap.cart[k] = copyCartItem(v)
	}
	for k, v := range s.orders {
		snap.orders[k] = copyOrder(v)
	}
	for k, v := range s.order {
		snap.order[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.products = snap.products
	s.reviews = snap.reviews
	s.cart = snap.cart
	s.orders = snap.orders
	s.order = snap.order
	s.seq = snap.seq
}

func copyUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func copyProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Images = append([]entity.ProductImage(nil), p.Images...)
	c.Reviews = append([]entity.Review(nil), p.Reviews...)
	return &c
}

func copyCartItem(i *entity.CartItem) *entity.CartItem {
	if i == nil {
		return nil
	}
	c := *i
	c.Product = nil
	return &c
}

func copyOrder(o *entity.Order) *entity.Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Products = append([]entity.OrderLine(nil), o.Products...)
	return &c
}
