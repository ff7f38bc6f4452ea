package domain

import "time"

// Productos vendibles y sus precios en rublos.
const (
	ProductFullReport          = "full_report"
	ProductCompatibilityReport = "compatibility_report"
	ProductSubscription        = "subscription"
)

// Estados del ciclo de vida de una orden.
const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusCanceled = "canceled"
)

type Order struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Product   string         `json:"product"`
	Price     float64        `json:"price"`
	Currency  string         `json:"currency"`
	Status    string         `json:"status"`
	PaidAt    *time.Time     `json:"paid_at,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ProductPrice devuelve el precio en RUB, o 0 si el producto no existe.
func ProductPrice(product string) float64 {
	switch product {
	case ProductFullReport:
		return 149.0
	case ProductCompatibilityReport:
		return 199.0
	case ProductSubscription:
		return 299.0
	default:
		return 0
	}
}
