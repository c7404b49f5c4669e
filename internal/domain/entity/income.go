package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de ingreso.
const (
	IncomeCategoryWorkshop      = "WORKSHOP" // pago de cliente (abono)
	IncomeCategoryTowing        = "TOWING"
	IncomeCategoryOtherEarnings = "OTHER_EARNINGS"
	IncomeCategoryOther         = "OTHER"
)

// Income es un cobro recibido. Vinculado a una orden cuenta como abono contra su factura.
type Income struct {
	ID            string
	OrderID       string
	Category      string
	Amount        decimal.Decimal
	Description   string
	PaymentMethod string
	Date          time.Time
	CreatedAt     time.Time
}
