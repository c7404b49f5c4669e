package dto

import "github.com/shopspring/decimal"

// GenerateInvoiceRequest body para POST /api/orders/:id/invoice.
// Genera la factura de la orden o reemplaza la existente conservando número y fecha.
type GenerateInvoiceRequest struct {
	IsTaxInvoice bool                  `json:"is_tax_invoice"`
	Notes        string                `json:"notes,omitempty"`
	Lines        []ProposedLineRequest `json:"lines"`
}

// ProposedLineRequest línea propuesta. Los importes van como texto; una línea inválida
// se descarta sin rechazar la factura.
//
//	PART / EXTERNAL_WORK: expense_id + price (PVP; nunca por debajo del coste)
//	CONSUMABLE:           consumable_type_id + quantity + price (precio total)
//	LABOR:                description + price (importe)
type ProposedLineRequest struct {
	Type             string `json:"type"`
	ExpenseID        string `json:"expense_id,omitempty"`
	ConsumableTypeID string `json:"consumable_type_id,omitempty"`
	Description      string `json:"description,omitempty"`
	Quantity         string `json:"quantity,omitempty"`
	Price            string `json:"price"`
}

// InvoiceResponse factura con sus líneas en orden de impresión.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	OrderID      string                `json:"order_id"`
	IssueDate    string                `json:"issue_date"`
	IsTaxInvoice bool                  `json:"is_tax_invoice"`
	Number       *int64                `json:"number,omitempty"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	Tax          decimal.Decimal       `json:"tax"`
	Total        decimal.Decimal       `json:"total"`
	Notes        string                `json:"notes,omitempty"`
	Lines        []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse línea de factura.
type InvoiceLineResponse struct {
	ID               string          `json:"id"`
	Type             string          `json:"type"`
	Description      string          `json:"description"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Total            decimal.Decimal `json:"total"`
	ExpenseID        string          `json:"expense_id,omitempty"`
	ConsumableTypeID string          `json:"consumable_type_id,omitempty"`
}
