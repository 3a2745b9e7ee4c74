// Package ordering contiene el flujo de pedidos: alta transaccional con
// descuento de stock, consultas con control de propiedad y administración.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/jhoicas/brownson-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Mensajes de pedidos.
const (
	MsgOrderNotFound        = "Order not found"
	MsgUnauthorizedAccess   = "Unauthorized access"
	MsgMissingShipping      = "Missing shipping details"
	MsgNoProducts           = "Order must contain at least one product"
	MsgInvalidQuantity      = "Each product must have a positive quantity"
	MsgInvalidPayment       = "Invalid payment status"
	MsgInvalidOrderStatus   = "Invalid order status"
	MsgOrderProductNotFound = "Product not found"
)

// Operaciones reportadas a las métricas.
const (
	opCreate       = "create"
	opStatusUpdate = "status_update"
	opDelete       = "delete"
)

// OrderUseCase orquesta el ciclo de vida de los pedidos.
type OrderUseCase struct {
	tx        TxRunner
	orders    repository.OrderRepository
	publisher ports.EventPublisher
	metrics   ports.OrderMetrics
	receipts  ReceiptRenderer
	catalog   ports.Cache
	log       *logger.Logger
}

// NewOrderUseCase construye el caso de uso. publisher, metrics y receipts son opcionales.
func NewOrderUseCase(
	tx TxRunner,
	orders repository.OrderRepository,
	publisher ports.EventPublisher,
	metrics ports.OrderMetrics,
	receipts ReceiptRenderer,
	log *logger.Logger,
) *OrderUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{
		tx:        tx,
		orders:    orders,
		publisher: publisher,
		metrics:   metrics,
		receipts:  receipts,
		log:       log.Component("ordering"),
	}
}

// WithCatalogCache hace que cada pedido confirmado invalide el listado de
// productos en caché, cuyo stock acaba de cambiar.
func (uc *OrderUseCase) WithCatalogCache(c ports.Cache) *OrderUseCase {
	uc.catalog = c
	return uc
}

// Create registra el pedido del usuario autenticado.
//
// Precio por línea y total se recalculan con el catálogo vigente; el total
// enviado por el cliente se ignora. Alta, descuento de stock (con piso en 0)
// y vaciado del carrito ocurren en la misma transacción.
func (uc *OrderUseCase) Create(ctx context.Context, requester *entity.User, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	// ── 1. Validar la entrada ─────────────────────────────────────────────────
	purchaser := entity.Purchaser{
		UserID:          requester.ID,
		Username:        strings.TrimSpace(in.Username),
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		ContactNumber:   strings.TrimSpace(in.ContactNumber),
	}
	if purchaser.Username == "" || purchaser.DeliveryAddress == "" || purchaser.ContactNumber == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, MsgMissingShipping)
	}
	if len(in.Products) == 0 {
		return nil, domain.Errorf(domain.ErrInvalidInput, MsgNoProducts)
	}
	ids := make([]string, len(in.Products))
	quantities := make([]int, len(in.Products))
	for i, line := range in.Products {
		id, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, domain.Errorf(domain.ErrInvalidInput, "Invalid Product ID format")
		}
		ids[i] = id.String()
		q, ok := lineQuantity(line.Quantity)
		if !ok {
			return nil, domain.Errorf(domain.ErrInvalidInput, MsgInvalidQuantity)
		}
		quantities[i] = q
	}
	payment, ok := entity.ParsePaymentStatus(in.PaymentStatus)
	if !ok {
		return nil, domain.Errorf(domain.ErrInvalidInput, MsgInvalidPayment)
	}

	now := time.Now().UTC()
	order := &entity.Order{
		ID:            uuid.New().String(),
		User:          purchaser,
		PaymentStatus: payment,
		OrderStatus:   entity.OrderPacking,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// ── 2. Transacción: snapshot + alta + stock + carrito ─────────────────────
	err := uc.tx.RunOrder(ctx, func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
		carts repository.CartRepository,
	) error {
		catalog, err := products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		order.Products = make([]entity.OrderLine, 0, len(ids))
		for i, id := range ids {
			p, found := catalog[id]
			if !found {
				return domain.Errorf(domain.ErrNotFound, MsgOrderProductNotFound)
			}
			order.Products = append(order.Products, entity.OrderLine{
				ProductID:   p.ID,
				ProductName: p.Name,
				Image:       p.FirstImage(),
				Quantity:    quantities[i],
				Price:       p.Price,
			})
		}
		order.TotalPrice = order.ComputeTotal()

		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("ordering: crear pedido: %w", err)
		}
		for _, line := range order.Products {
			if err := products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				return fmt.Errorf("ordering: descontar stock: %w", err)
			}
		}
		return carts.Clear(ctx, requester.ID)
	})
	if err != nil {
		uc.observe(opCreate, err)
		return nil, err
	}
	uc.observe(opCreate, nil)
	uc.invalidateCatalog(ctx)

	if !in.TotalPrice.IsZero() && !in.TotalPrice.Equal(order.TotalPrice) {
		uc.log.Warn().
			Str("order_id", order.ID).
			Str("client_total", in.TotalPrice.String()).
			Str("total", order.TotalPrice.String()).
			Msg("total enviado por el cliente no coincide con el catálogo")
	}
	uc.publish(ctx, ports.EventOrderCreated, order)
	return dto.FromOrder(order), nil
}

// MyOrders pedidos del usuario, más recientes primero.
func (uc *OrderUseCase) MyOrders(ctx context.Context, userID string) ([]dto.OrderResponse, error) {
	orders, err := uc.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.FromOrders(orders), nil
}

// Get devuelve el pedido solo si el solicitante es el comprador.
func (uc *OrderUseCase) Get(ctx context.Context, requester *entity.User, id string) (*dto.OrderResponse, error) {
	order, err := uc.owned(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	return dto.FromOrder(order), nil
}

// AdminGet devuelve el pedido sin verificar propiedad.
func (uc *OrderUseCase) AdminGet(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromOrder(order), nil
}

// AdminList todos los pedidos y la suma de sus totales.
func (uc *OrderUseCase) AdminList(ctx context.Context) ([]dto.OrderResponse, decimal.Decimal, error) {
	orders, err := uc.orders.ListAll(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalPrice)
	}
	return dto.FromOrders(orders), total, nil
}

// UpdateStatus fija cualquier estado del vocabulario, sin importar el anterior.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	id, err := parseOrderID(id)
	if err != nil {
		return nil, err
	}
	st, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, domain.Errorf(domain.ErrInvalidInput, MsgInvalidOrderStatus)
	}
	order, err := uc.orders.UpdateStatus(ctx, id, st)
	if err != nil {
		uc.observe(opStatusUpdate, err)
		return nil, err
	}
	if order == nil {
		return nil, domain.Errorf(domain.ErrNotFound, MsgOrderNotFound)
	}
	uc.observe(opStatusUpdate, nil)
	uc.publish(ctx, ports.EventOrderStatusChanged, order)
	return dto.FromOrder(order), nil
}

// Delete borra el pedido definitivamente.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	id, err := parseOrderID(id)
	if err != nil {
		return err
	}
	ok, err := uc.orders.Delete(ctx, id)
	if err != nil {
		uc.observe(opDelete, err)
		return err
	}
	if !ok {
		return domain.Errorf(domain.ErrNotFound, MsgOrderNotFound)
	}
	uc.observe(opDelete, nil)
	uc.publish(ctx, ports.EventOrderDeleted, &entity.Order{ID: id})
	return nil
}

// Receipt genera el PDF del pedido para su comprador. Devuelve bytes y nombre de archivo.
func (uc *OrderUseCase) Receipt(ctx context.Context, requester *entity.User, id string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", domain.Errorf(domain.ErrUnavailable, "Receipts are not available")
	}
	order, err := uc.owned(ctx, requester, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.receipts.RenderReceipt(ctx, order)
	if err != nil {
		return nil, "", fmt.Errorf("ordering: generar comprobante: %w", err)
	}
	return pdf, fmt.Sprintf("order_%s.pdf", order.ID), nil
}

func (uc *OrderUseCase) owned(ctx context.Context, requester *entity.User, id string) (*entity.Order, error) {
	order, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester == nil || !order.OwnedBy(requester.ID) {
		return nil, domain.Errorf(domain.ErrForbidden, MsgUnauthorizedAccess)
	}
	return order, nil
}

func (uc *OrderUseCase) load(ctx context.Context, id string) (*entity.Order, error) {
	id, err := parseOrderID(id)
	if err != nil {
		return nil, err
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.Errorf(domain.ErrNotFound, MsgOrderNotFound)
	}
	return order, nil
}

func (uc *OrderUseCase) invalidateCatalog(ctx context.Context) {
	if uc.catalog == nil {
		return
	}
	if err := uc.catalog.Delete(ctx, ports.CatalogCacheKey); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché del catálogo")
	}
}

// publish emite el evento; un fallo del broker solo se registra.
func (uc *OrderUseCase) publish(ctx context.Context, eventType string, order *entity.Order) {
	if uc.publisher == nil {
		return
	}
	ev := ports.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.User.UserID,
		OrderStatus: string(order.OrderStatus),
		OccurredAt:  time.Now().UTC(),
	}
	if !order.TotalPrice.IsZero() {
		ev.TotalPrice = order.TotalPrice.StringFixed(2)
	}
	if err := uc.publisher.Publish(ctx, ev); err != nil {
		uc.log.Warn().Err(err).Str("event", eventType).Str("order_id", order.ID).Msg("no se pudo publicar el evento")
	}
}

func (uc *OrderUseCase) observe(operation string, err error) {
	if uc.metrics == nil {
		return
	}
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		status = "rejected"
	default:
		status = "error"
	}
	uc.metrics.OrderOperation(operation, status)
}

// parseOrderID valida el id y lo devuelve en forma canónica.
func parseOrderID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", domain.Errorf(domain.ErrInvalidInput, "Invalid Order ID format")
	}
	return u.String(), nil
}

// lineQuantity acepta enteros positivos que caben en order_lines.quantity (INTEGER).
func lineQuantity(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}
