// Package billing contiene las reglas puras de facturación: validación de líneas propuestas,
// cálculo de totales, orden de presentación y saldo pendiente.
package billing

import (
	"sort"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate es el IVA general (21 %).
var DefaultTaxRate = decimal.RequireFromString("0.21")

// Totals son los importes congelados en la factura.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals: subtotal = Σ totales de línea (2 decimales, nunca negativo);
// IVA = round(subtotal × rate, 2) solo si es factura; total = subtotal + IVA.
func ComputeTotals(lines []*entity.InvoiceLine, isTaxInvoice bool, rate decimal.Decimal) Totals {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	subtotal := decimal.Max(sum.Round(2), decimal.Zero)

	tax := decimal.Zero
	if isTaxInvoice {
		tax = subtotal.Mul(rate).Round(2)
	}
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// ClampToCost sube el precio al coste: nunca se factura por debajo de lo pagado.
func ClampToCost(price, cost decimal.Decimal) decimal.Decimal {
	if price.LessThan(cost) {
		return cost
	}
	return price
}

var displayOrder = map[string]int{
	entity.LineTypeLabor:        0,
	entity.LineTypePart:         1,
	entity.LineTypeConsumable:   2,
	entity.LineTypeExternalWork: 3,
}

// SortForDisplay ordena las líneas como se imprimen: mano de obra, repuestos,
// consumibles y trabajos externos; dentro de cada tipo, por posición.
func SortForDisplay(lines []*entity.InvoiceLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		oi, oj := displayOrder[lines[i].Type], displayOrder[lines[j].Type]
		if oi != oj {
			return oi < oj
		}
		return lines[i].Position < lines[j].Position
	})
}
