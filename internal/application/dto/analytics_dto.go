package dto

import "github.com/shopspring/decimal"

// ProfitEntryDTO grupo (tipo, descripción) del desglose de rentabilidad.
type ProfitEntryDTO struct {
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
}

// OrderProfitResponse respuesta de GET /api/reports/orders/:id/profit.
// ClientBalance = abonos − total: negativo si el cliente aún debe.
type OrderProfitResponse struct {
	OrderID       string           `json:"order_id"`
	InvoiceID     string           `json:"invoice_id"`
	InvoiceNumber *int64           `json:"invoice_number,omitempty"`
	IssueDate     string           `json:"issue_date"`
	Entries       []ProfitEntryDTO `json:"entries"`
	TotalCost     decimal.Decimal  `json:"total_cost"`
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	TotalProfit   decimal.Decimal  `json:"total_profit"`
	InvoiceTotal  decimal.Decimal  `json:"invoice_total"`
	Payments      decimal.Decimal  `json:"payments"`
	ClientBalance decimal.Decimal  `json:"client_balance"`
}

// OrderProfitSummary fila por orden del informe de período.
type OrderProfitSummary struct {
	OrderID       string          `json:"order_id"`
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber *int64          `json:"invoice_number,omitempty"`
	IssueDate     string          `json:"issue_date"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
}

// PeriodProfitResponse respuesta de GET /api/reports/profit.
type PeriodProfitResponse struct {
	From          string               `json:"from"`
	To            string               `json:"to"`
	Orders        []OrderProfitSummary `json:"orders"`
	JobsProfit    decimal.Decimal      `json:"jobs_profit"`
	TowingIncome  decimal.Decimal      `json:"towing_income"`
	OtherEarnings decimal.Decimal      `json:"other_earnings"`
	TotalProfit   decimal.Decimal      `json:"total_profit"`
}

// OutstandingResponse saldo pendiente de una factura.
type OutstandingResponse struct {
	InvoiceID     string          `json:"invoice_id"`
	OrderID       string          `json:"order_id"`
	InvoiceNumber *int64          `json:"invoice_number,omitempty"`
	IssueDate     string          `json:"issue_date"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Pending       bool            `json:"pending"`
}

// ReceivablesResponse respuesta de GET /api/reports/receivables.
type ReceivablesResponse struct {
	From             string                `json:"from"`
	To               string                `json:"to"`
	Items            []OutstandingResponse `json:"items"`
	TotalOutstanding decimal.Decimal       `json:"total_outstanding"`
}
