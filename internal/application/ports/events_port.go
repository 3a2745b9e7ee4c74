package ports

import (
	"context"
	"time"
)

// Claves de enrutamiento de los eventos de pedidos.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

// OrderEvent carga útil publicada en cada cambio de un pedido.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId,omitempty"`
	OrderStatus string    `json:"orderStatus,omitempty"`
	TotalPrice  string    `json:"totalPrice,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// EventPublisher publica eventos de dominio. Un fallo al publicar no revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// OrderMetrics contadores de operaciones sobre pedidos.
type OrderMetrics interface {
	OrderOperation(operation, status string)
}
