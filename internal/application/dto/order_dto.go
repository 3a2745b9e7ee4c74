package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineInput línea enviada por el cliente. Nombre, imagen y precio se toman del catálogo.
type OrderLineInput struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Image       string  `json:"image"`
	Quantity    float64 `json:"quantity"`
}

// CreateOrderRequest entrada de POST /api/order/create.
// TotalPrice se acepta por compatibilidad pero se recalcula en el servidor.
type CreateOrderRequest struct {
	Products        []OrderLineInput `json:"products"`
	TotalPrice      decimal.Decimal  `json:"totalPrice"`
	PaymentStatus   string           `json:"paymentStatus"`
	Username        string           `json:"username"`
	DeliveryAddress string           `json:"deliveryAddress"`
	ContactNumber   string           `json:"contactNumber"`
}

// UpdateOrderStatusRequest acepta "status" (API) u "orderStatus" (SPA).
type UpdateOrderStatusRequest struct {
	Status      string `json:"status"`
	OrderStatus string `json:"orderStatus"`
}

// Value devuelve el estado enviado, priorizando "status".
func (r UpdateOrderStatusRequest) Value() string {
	if r.Status != "" {
		return r.Status
	}
	return r.OrderStatus
}

// PurchaserDTO snapshot del comprador.
type PurchaserDTO struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	DeliveryAddress string `json:"deliveryAddress"`
	ContactNumber   string `json:"contactNumber"`
}

// OrderLineDTO snapshot de línea.
type OrderLineDTO struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Image       string          `json:"image"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID            string          `json:"_id"`
	User          PurchaserDTO    `json:"user"`
	Products      []OrderLineDTO  `json:"products"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	PaymentStatus string          `json:"paymentStatus"`
	OrderStatus   string          `json:"orderStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// OrderEnvelope {success, message?, order}.
type OrderEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Order   *OrderResponse `json:"order"`
}

// OrderListResponse {success, orders}; TotalAmount solo en el listado de administración.
type OrderListResponse struct {
	Success     bool             `json:"success"`
	Orders      []OrderResponse  `json:"orders"`
	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty"`
}
