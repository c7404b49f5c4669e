package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice es el documento de cobro de una orden: factura con IVA (numerada) o recibo.
type Invoice struct {
	ID           string
	OrderID      string
	IssueDate    time.Time
	IsTaxInvoice bool
	Number       *int64 // solo facturas con IVA; nil en recibos
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
