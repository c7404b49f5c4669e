// Package stock calcula el stock de consumibles a partir de sus tres flujos de eventos
// (compras, usos y ajustes manuales). Servicio de dominio puro: no persiste nada.
package stock

import (
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UnitCost = totalCost / quantity con 4 decimales. Cantidad no positiva => cero, nunca error,
// para que datos históricos malos no rompan los informes.
func UnitCost(quantity, totalCost decimal.Decimal) decimal.Decimal {
	if !quantity.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return totalCost.Div(quantity).Round(4)
}

// Ledger agrupa los eventos de un único tipo de consumible.
type Ledger struct {
	Purchases   []*entity.ConsumablePurchase
	Usages      []*entity.ConsumableUsage
	Adjustments []*entity.StockAdjustment
}

// Current = Σcompras − Σusos + Σajustes, redondeado a 2 decimales.
// No hay saldo acumulado: se recalcula siempre y no depende del orden de inserción.
func (l Ledger) Current() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Purchases {
		total = total.Add(p.Quantity)
	}
	for _, u := range l.Usages {
		total = total.Sub(u.Quantity)
	}
	for _, a := range l.Adjustments {
		total = total.Add(a.Quantity)
	}
	return total.Round(2)
}

// IsLow indica stock bajo: umbral definido y Current() <= umbral.
func (l Ledger) IsLow(minStock *decimal.Decimal) bool {
	if minStock == nil {
		return false
	}
	return l.Current().LessThanOrEqual(*minStock)
}

// ValuationAt devuelve el coste unitario de la compra más reciente con fecha <= asOf
// (comparando por día natural). Empates del mismo día: gana la creada después.
// Sin compras previas la valoración es cero.
func (l Ledger) ValuationAt(asOf time.Time) decimal.Decimal {
	limit := Day(asOf)
	var latest *entity.ConsumablePurchase
	for _, p := range l.Purchases {
		if Day(p.Date).After(limit) {
			continue
		}
		if latest == nil || purchaseAfter(p, latest) {
			latest = p
		}
	}
	if latest == nil {
		return decimal.Zero
	}
	return UnitCost(latest.Quantity, latest.TotalCost)
}

// LastUnitCost es la valoración a día de hoy.
func (l Ledger) LastUnitCost() decimal.Decimal {
	return l.ValuationAt(time.Now())
}

func purchaseAfter(a, b *entity.ConsumablePurchase) bool {
	da, db := Day(a.Date), Day(b.Date)
	if !da.Equal(db) {
		return da.After(db)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Day trunca t al día natural en su propia zona horaria.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Build reparte los eventos por tipo de consumible.
func Build(purchases []*entity.ConsumablePurchase, usages []*entity.ConsumableUsage, adjustments []*entity.StockAdjustment) map[string]*Ledger {
	out := make(map[string]*Ledger)
	get := func(typeID string) *Ledger {
		l, ok := out[typeID]
		if !ok {
			l = &Ledger{}
			out[typeID] = l
		}
		return l
	}
	for _, p := range purchases {
		l := get(p.TypeID)
		l.Purchases = append(l.Purchases, p)
	}
	for _, u := range usages {
		l := get(u.TypeID)
		l.Usages = append(l.Usages, u)
	}
	for _, a := range adjustments {
		l := get(a.TypeID)
		l.Adjustments = append(l.Adjustments, a)
	}
	return out
}
