package entity

import "github.com/shopspring/decimal"

// Tipos de línea de factura.
const (
	LineTypePart         = "PART"
	LineTypeConsumable   = "CONSUMABLE"
	LineTypeExternalWork = "EXTERNAL_WORK"
	LineTypeLabor        = "LABOR"
)

// InvoiceLine representa una línea cobrada. Inmutable: la factura se reemplaza entera.
type InvoiceLine struct {
	ID               string
	InvoiceID        string
	Position         int
	Type             string
	Description      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	ExpenseID        string // origen del coste en PART / EXTERNAL_WORK
	ConsumableTypeID string // origen del coste en CONSUMABLE
}

// Total = Quantity × UnitPrice.
func (l *InvoiceLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}
