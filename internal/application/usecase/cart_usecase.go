package usecase

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

// Mensajes del carrito.
const (
	MsgCartAdded        = "Product added to cart"
	MsgCartUpdated      = "Product quantity updated in cart"
	MsgCartRemoved      = "Product removed from cart successfully"
	MsgCartCleared      = "Cart cleared"
	MsgQuantityPositive = "Quantity must be a positive number."
	MsgCartItemNotFound = "Product not found in cart"
)

// CartUseCase reglas del carrito: una línea por (usuario, producto), la cantidad se sobrescribe.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(carts repository.CartRepository, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{carts: carts, products: products}
}

// Add crea o sobrescribe la línea del producto. La cantidad se valida antes de resolver el producto.
// Devuelve el mensaje que distingue alta de actualización.
func (uc *CartUseCase) Add(ctx context.Context, userID string, in dto.AddToCartRequest) (*dto.CartItemResponse, string, error) {
	qty, ok := positiveInt(in.Quantity)
	if !ok {
		return nil, "", domain.Errorf(domain.ErrInvalidInput, MsgQuantityPositive)
	}
	productID, err := ParseID(in.ProductID, "Product")
	if err != nil {
		return nil, "", err
	}
	in.ProductID = productID
	p, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, "", err
	}
	if p == nil {
		return nil, "", domain.Errorf(domain.ErrNotFound, MsgProductNotFound)
	}

	now := time.Now().UTC()
	item := &entity.CartItem{
		ID:          uuid.New().String(),
		UserID:      userID,
		ProductID:   p.ID,
		ProductName: p.Name,
		Image:       p.FirstImage(),
		Quantity:    qty,
		Price:       p.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	item.Recalculate()

	created, err := uc.carts.Upsert(ctx, item)
	if err != nil {
		return nil, "", err
	}
	item.Product = p
	msg := MsgCartUpdated
	if created {
		msg = MsgCartAdded
	}
	out := dto.FromCartItem(item)
	return &out, msg, nil
}

// Get devuelve las líneas del usuario con los datos vivos del producto (nil si ya no existe).
func (uc *CartUseCase) Get(ctx context.Context, userID string) (*dto.CartDTO, error) {
	items, err := uc.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	live := map[string]*entity.Product{}
	if len(ids) > 0 {
		if live, err = uc.products.GetByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}
	out := &dto.CartDTO{User: userID, Items: make([]dto.CartItemResponse, 0, len(items))}
	for _, it := range items {
		it.Product = live[it.ProductID]
		out.Items = append(out.Items, dto.FromCartItem(it))
	}
	return out, nil
}

// Remove elimina la línea del producto; 404 si no estaba en el carrito.
func (uc *CartUseCase) Remove(ctx context.Context, userID, productID string) error {
	productID, err := ParseID(productID, "Product")
	if err != nil {
		return err
	}
	ok, err := uc.carts.Remove(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Errorf(domain.ErrNotFound, MsgCartItemNotFound)
	}
	return nil
}

// Clear vacía el carrito del usuario. Siempre tiene éxito salvo error de persistencia.
func (uc *CartUseCase) Clear(ctx context.Context, userID string) error {
	return uc.carts.Clear(ctx, userID)
}

// Summary líneas crudas del carrito (usado por el chatbot).
func (uc *CartUseCase) Summary(ctx context.Context, userID string) ([]*entity.CartItem, error) {
	return uc.carts.ListByUser(ctx, userID)
}

// positiveInt acepta solo enteros > 0 representables.
func positiveInt(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}
