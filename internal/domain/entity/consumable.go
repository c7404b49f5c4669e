package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumableType es un material a granel (líquido de frenos, aceite...) controlado por cantidad.
type ConsumableType struct {
	ID       string
	Name     string
	Unit     string
	MinStock *decimal.Decimal // umbral de alerta; nil = sin alerta
}

// ConsumablePurchase registra una compra de consumible. Inmutable.
// El coste unitario se deriva con stock.UnitCost.
type ConsumablePurchase struct {
	ID        string
	TypeID    string
	Date      time.Time
	Quantity  decimal.Decimal
	TotalCost decimal.Decimal
	CreatedAt time.Time
}

// ConsumableUsage registra el consumo de una orden. Solo lo crea la generación de factura.
type ConsumableUsage struct {
	ID       string
	OrderID  string
	TypeID   string
	Quantity decimal.Decimal
	Date     time.Time
}

// StockAdjustment es una corrección manual (positiva o negativa) del stock.
type StockAdjustment struct {
	ID        string
	TypeID    string
	Quantity  decimal.Decimal
	Reason    string
	Date      time.Time
	CreatedAt time.Time
}
