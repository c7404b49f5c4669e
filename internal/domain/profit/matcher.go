// Package profit reconstruye el coste real de cada línea facturada de una orden
// emparejándola con su origen de coste: gasto de repuesto o trabajo externo,
// valoración de consumibles o nada (mano de obra).
package profit

import (
	"sort"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/billing"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// Input reúne lo necesario para analizar una factura.
type Input struct {
	IssueDate       time.Time
	Lines           []*entity.InvoiceLine
	Expenses        []*entity.Expense // gastos de la orden; se filtran PARTS / EXTERNAL_WORK
	ConsumableTypes []*entity.ConsumableType
	Purchases       []*entity.ConsumablePurchase
}

// Entry es un grupo (tipo, descripción normalizada) del desglose.
type Entry struct {
	Kind        string
	Description string
	Cost        decimal.Decimal
	Revenue     decimal.Decimal
	Profit      decimal.Decimal
}

// Report es el desglose de una orden.
type Report struct {
	Entries      []Entry
	TotalCost    decimal.Decimal
	TotalRevenue decimal.Decimal
	TotalProfit  decimal.Decimal
}

type groupKey struct {
	kind string
	norm string
}

// Match empareja las líneas con sus costes. Los gastos del pool se reclaman como mucho una vez,
// recorriéndolos en orden estable (fecha, alta, ID). Un coste que no se encuentra vale cero.
// Los gastos no reclamados aparecen con ingreso cero y restan del beneficio.
func Match(in Input) Report {
	pool := costPool(in.Expenses)
	claimed := make(map[string]bool, len(pool))
	valuation := consumableValuation(in)

	groups := make(map[groupKey]*Entry)
	add := func(kind, description string, cost, revenue decimal.Decimal) {
		k := groupKey{kind: kind, norm: billing.NormalizeDescription(description)}
		e, ok := groups[k]
		if !ok {
			e = &Entry{Kind: kind, Description: description, Cost: decimal.Zero, Revenue: decimal.Zero}
			groups[k] = e
		}
		e.Cost = e.Cost.Add(cost)
		e.Revenue = e.Revenue.Add(revenue)
	}

	for _, l := range in.Lines {
		cost := decimal.Zero
		switch l.Type {
		case entity.LineTypePart, entity.LineTypeExternalWork:
			category := expenseCategoryFor(l.Type)
			norm := billing.NormalizeDescription(l.Description)
			for _, e := range pool {
				if claimed[e.ID] || e.Category != category || billing.NormalizeDescription(e.Description) != norm {
					continue
				}
				claimed[e.ID] = true
				cost = e.Amount
				break
			}
		case entity.LineTypeConsumable:
			cost = valuation(l).Mul(l.Quantity)
		}
		add(l.Type, l.Description, cost, l.Total())
	}

	for _, e := range pool {
		if claimed[e.ID] {
			continue
		}
		add(lineTypeFor(e.Category), e.Description, e.Amount, decimal.Zero)
	}

	report := Report{
		Entries:      make([]Entry, 0, len(groups)),
		TotalCost:    decimal.Zero,
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
	}
	for _, e := range groups {
		e.Profit = e.Revenue.Sub(e.Cost)
		report.Entries = append(report.Entries, *e)
		report.TotalCost = report.TotalCost.Add(e.Cost)
		report.TotalRevenue = report.TotalRevenue.Add(e.Revenue)
		report.TotalProfit = report.TotalProfit.Add(e.Profit)
	}
	sort.Slice(report.Entries, func(i, j int) bool {
		a, b := report.Entries[i], report.Entries[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return billing.NormalizeDescription(a.Description) < billing.NormalizeDescription(b.Description)
	})
	return report
}

func costPool(expenses []*entity.Expense) []*entity.Expense {
	pool := make([]*entity.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == entity.ExpenseCategoryParts || e.Category == entity.ExpenseCategoryExternalWork {
			pool = append(pool, e)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return pool
}

// consumableValuation resuelve el tipo por ID y, si falta, por nombre normalizado.
func consumableValuation(in Input) func(*entity.InvoiceLine) decimal.Decimal {
	byID := make(map[string]*entity.ConsumableType, len(in.ConsumableTypes))
	byName := make(map[string]*entity.ConsumableType, len(in.ConsumableTypes))
	for _, t := range in.ConsumableTypes {
		byID[t.ID] = t
		byName[billing.NormalizeDescription(t.Name)] = t
	}
	ledgers := stock.Build(in.Purchases, nil, nil)

	return func(l *entity.InvoiceLine) decimal.Decimal {
		t, ok := byID[l.ConsumableTypeID]
		if !ok {
			t, ok = byName[billing.NormalizeDescription(l.Description)]
		}
		if !ok {
			return decimal.Zero
		}
		ledger, ok := ledgers[t.ID]
		if !ok {
			return decimal.Zero
		}
		return ledger.ValuationAt(in.IssueDate)
	}
}

func expenseCategoryFor(lineType string) string {
	if lineType == entity.LineTypePart {
		return entity.ExpenseCategoryParts
	}
	return entity.ExpenseCategoryExternalWork
}

func lineTypeFor(category string) string {
	if category == entity.ExpenseCategoryParts {
		return entity.LineTypePart
	}
	return entity.LineTypeExternalWork
}
