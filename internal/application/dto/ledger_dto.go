package dto

import "github.com/shopspring/decimal"

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	ClientID  string `json:"client_id,omitempty" validate:"omitempty,uuid"`
	VehicleID string `json:"vehicle_id,omitempty" validate:"omitempty,uuid"`
}

// OrderResponse orden de reparación.
type OrderResponse struct {
	ID        string `json:"id"`
	ClientID  string `json:"client_id,omitempty"`
	VehicleID string `json:"vehicle_id,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// RecordMovementRequest body para POST /api/expenses y POST /api/incomes.
// La categoría admitida depende del endpoint.
type RecordMovementRequest struct {
	OrderID       string          `json:"order_id,omitempty" validate:"omitempty,uuid"`
	Category      string          `json:"category" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" validate:"max=500"`
	PaymentMethod string          `json:"payment_method,omitempty" validate:"omitempty,oneof=CASH SHARED_ACCOUNT SHOP_ACCOUNT"`
	Date          string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// MovementResponse gasto o ingreso registrado.
type MovementResponse struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id,omitempty"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method"`
	Date          string          `json:"date"`
}
