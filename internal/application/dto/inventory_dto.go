package dto

import "github.com/shopspring/decimal"

// Etiquetas de alerta de stock.
const (
	StockAlertLow  = "LOW"
	StockAlertOK   = "OK"
	StockAlertNone = "N/A" // sin umbral definido
)

// StockSnapshot stock calculado de un tipo de consumible.
type StockSnapshot struct {
	TypeID       string           `json:"type_id"`
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	CurrentStock decimal.Decimal  `json:"current_stock"`
	MinStock     *decimal.Decimal `json:"min_stock,omitempty"`
	IsLow        bool             `json:"is_low"`
	Alert        string           `json:"alert"`
	LastUnitCost decimal.Decimal  `json:"last_unit_cost"` // coste de la última compra
}

// CreateConsumableTypeRequest body para POST /api/stock/types.
type CreateConsumableTypeRequest struct {
	Name     string           `json:"name" validate:"required,max=100"`
	Unit     string           `json:"unit" validate:"required,max=20"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
}

// ConsumableTypeResponse tipo de consumible creado.
type ConsumableTypeResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Unit     string           `json:"unit"`
	MinStock *decimal.Decimal `json:"min_stock,omitempty"`
}

// RegisterPurchaseRequest body para POST /api/stock/purchases (también stock inicial).
type RegisterPurchaseRequest struct {
	TypeID    string          `json:"type_id" validate:"required"`
	Date      string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quantity  decimal.Decimal `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// RegisterAdjustmentRequest body para POST /api/stock/adjustments.
// Quantity con signo: positiva suma, negativa resta.
type RegisterAdjustmentRequest struct {
	TypeID   string          `json:"type_id" validate:"required"`
	Date     string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason" validate:"required,max=255"`
}

// StockEventResponse evento de stock registrado y stock resultante.
type StockEventResponse struct {
	ID           string          `json:"id"`
	TypeID       string          `json:"type_id"`
	Date         string          `json:"date"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost,omitempty"`
	Reason       string          `json:"reason,omitempty"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}
