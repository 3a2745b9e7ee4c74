package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de pago del pedido.
type PaymentStatus string

const (
	PaymentPaid           PaymentStatus = "paid"
	PaymentCashOnDelivery PaymentStatus = "cash_on_delivery"
)

// ParsePaymentStatus acepta el vocabulario canónico y el legado "payed".
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "payed":
		return PaymentPaid, true
	case "cash_on_delivery", "cash on delivery", "cod":
		return PaymentCashOnDelivery, true
	}
	return "", false
}

// OrderStatus estado de preparación/entrega. Cualquier valor puede pasar a cualquier otro.
type OrderStatus string

const (
	OrderPacking     OrderStatus = "packing"
	OrderReadyToShip OrderStatus = "ready to ship"
	OrderShipping    OrderStatus = "shipping"
	OrderHandedOver  OrderStatus = "handed over"
)

// OrderStatuses progresión en orden.
var OrderStatuses = []OrderStatus{OrderPacking, OrderReadyToShip, OrderShipping, OrderHandedOver}

// ParseOrderStatus valida contra el vocabulario fijo.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range OrderStatuses {
		if v == st {
			return st, true
		}
	}
	return "", false
}

// Purchaser snapshot del comprador al momento del pedido.
type Purchaser struct {
	UserID          string
	Username        string
	DeliveryAddress string
	ContactNumber   string
}

// OrderLine snapshot de un producto dentro del pedido.
type OrderLine struct {
	ProductID   string
	ProductName string
	Image       string
	Quantity    int
	Price       decimal.Decimal
}

// Subtotal precio × cantidad.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order pedido. Solo OrderStatus es mutable después de creado.
type Order struct {
	ID            string
	User          Purchaser
	Products      []OrderLine
	TotalPrice    decimal.Decimal
	PaymentStatus PaymentStatus
	OrderStatus   OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComputeTotal suma los subtotales de las líneas.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Products {
		total = total.Add(l.Subtotal())
	}
	return total
}

// OwnedBy indica si el pedido pertenece al usuario.
func (o *Order) OwnedBy(userID string) bool {
	return o.User.UserID != "" && o.User.UserID == userID
}
