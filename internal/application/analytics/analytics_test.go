package analytics_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jhoicas/taller-api/internal/application/analytics"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(dd int) time.Time { return time.Date(2024, 6, dd, 0, 0, 0, 0, time.UTC) }

type fixture struct {
	store       *memory.Store
	profit      *analytics.ProfitabilityUseCase
	receivables *analytics.ReceivablesUseCase
}

func newFixture() *fixture {
	s := memory.NewStore()
	return &fixture{
		store:       s,
		profit:      analytics.NewProfitabilityUseCase(s.Orders(), s.Invoices(), s.Expenses(), s.Incomes(), s.Consumables(), logger.Nop()),
		receivables: analytics.NewReceivablesUseCase(s.Invoices(), s.Incomes()),
	}
}

// invoice guarda una orden con factura ya congelada y sus líneas.
func (f *fixture) invoice(t *testing.T, orderID, invoiceID string, issued time.Time, total string, lines ...*entity.InvoiceLine) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.Orders().Create(ctx, &entity.RepairOrder{ID: orderID, Status: entity.OrderStatusReadyForPickup}))
	require.NoError(t, f.store.Invoices().Create(ctx, &entity.Invoice{
		ID: invoiceID, OrderID: orderID, IssueDate: issued, IsTaxInvoice: true, Total: d(total),
	}))
	for i, l := range lines {
		l.ID = fmt.Sprintf("%s-l%d", invoiceID, i)
		l.InvoiceID = invoiceID
		l.Position = i
		require.NoError(t, f.store.Invoices().CreateLine(ctx, l))
	}
}

func (f *fixture) income(t *testing.T, id, orderID, category, amount string, date time.Time) {
	t.Helper()
	require.NoError(t, f.store.Incomes().Create(context.Background(), &entity.Income{
		ID: id, OrderID: orderID, Category: category, Amount: d(amount), Date: date, CreatedAt: date,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuentas por cobrar (escenarios C y D)
// ──────────────────────────────────────────────────────────────────────────────

func TestReceivables_ScenariosCAndD(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.invoice(t, "oC", "iC", day(10), "121")
	f.income(t, "c1", "oC", entity.IncomeCategoryWorkshop, "50", day(10))
	f.income(t, "c2", "oC", entity.IncomeCategoryWorkshop, "50", day(12))
	f.invoice(t, "oD", "iD", day(5), "121")
	f.income(t, "d1", "oD", entity.IncomeCategoryWorkshop, "121", day(5))

	c, err := f.receivables.Outstanding(ctx, "iC")
	require.NoError(t, err)
	assert.True(t, c.Outstanding.Equal(d("21")))
	assert.True(t, c.Paid.Equal(d("100")))
	assert.True(t, c.Pending)

	dd, err := f.receivables.Outstanding(ctx, "iD")
	require.NoError(t, err)
	assert.True(t, dd.Outstanding.IsZero())
	assert.False(t, dd.Pending)

	list, err := f.receivables.PendingReceivables(ctx, day(1), day(30))
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "iC", list.Items[0].InvoiceID)
	assert.True(t, list.TotalOutstanding.Equal(d("21")))

	_, err = f.receivables.Outstanding(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceivables_OrderedByIssueDateAndFilteredByPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.invoice(t, "o1", "i-late", day(20), "10")
	f.invoice(t, "o2", "i-early", day(2), "10")
	f.invoice(t, "o3", "i-out", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), "10")

	list, err := f.receivables.PendingReceivables(ctx, day(1), day(30))
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "i-early", list.Items[0].InvoiceID)
	assert.Equal(t, "i-late", list.Items[1].InvoiceID)

	_, err = f.receivables.PendingReceivables(ctx, day(30), day(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rentabilidad (escenario E y agregado del período)
// ──────────────────────────────────────────────────────────────────────────────

func TestOrderProfit_ScenarioE(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.invoice(t, "o1", "i1", day(10), "121",
		&entity.InvoiceLine{Type: entity.LineTypeLabor, Description: "MANO DE OBRA", Quantity: d("1"), UnitPrice: d("100")},
	)
	require.NoError(t, f.store.Expenses().Create(ctx, &entity.Expense{
		ID: "e1", OrderID: "o1", Category: entity.ExpenseCategoryParts, Description: "Termostato", Amount: d("40"), Date: day(3),
	}))
	f.income(t, "p1", "o1", entity.IncomeCategoryWorkshop, "100", day(11))

	resp, err := f.profit.OrderProfit(ctx, "o1")
	require.NoError(t, err)

	require.Len(t, resp.Entries, 2)
	var unbilled bool
	for _, e := range resp.Entries {
		if e.Description == "Termostato" {
			unbilled = true
			assert.True(t, e.Cost.Equal(d("40")))
			assert.True(t, e.Revenue.IsZero())
			assert.True(t, e.Profit.Equal(d("-40")))
		}
	}
	assert.True(t, unbilled)
	assert.True(t, resp.TotalProfit.Equal(d("60")))
	assert.True(t, resp.Payments.Equal(d("100")))
	assert.True(t, resp.ClientBalance.Equal(d("-21")), "el cliente aún debe 21")
}

func TestOrderProfit_ConsumableValuedAtIssueDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.store.Consumables().CreateType(ctx, &entity.ConsumableType{ID: "bf", Name: "Líquido de frenos", Unit: "L"}))
	for _, p := range []*entity.ConsumablePurchase{
		{ID: "p1", TypeID: "bf", Date: day(1), Quantity: d("10"), TotalCost: d("50")},
		{ID: "p2", TypeID: "bf", Date: day(5), Quantity: d("5"), TotalCost: d("30")},
	} {
		require.NoError(t, f.store.Consumables().CreatePurchase(ctx, p))
	}
	f.invoice(t, "o1", "i1", day(8), "32.67",
		&entity.InvoiceLine{Type: entity.LineTypeConsumable, Description: "Líquido de frenos", ConsumableTypeID: "bf", Quantity: d("3"), UnitPrice: d("9")},
	)

	resp, err := f.profit.OrderProfit(ctx, "o1")
	require.NoError(t, err)

	require.Len(t, resp.Entries, 1)
	assert.True(t, resp.Entries[0].Cost.Equal(d("18")))
	assert.True(t, resp.Entries[0].Profit.Equal(d("9")))
}

func TestOrderProfit_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.store.Orders().Create(ctx, &entity.RepairOrder{ID: "uninvoiced"}))

	_, err := f.profit.OrderProfit(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.profit.OrderProfit(ctx, "uninvoiced")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPeriodProfit_AddsDirectRevenue(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.invoice(t, "o1", "i1", day(10), "121",
		&entity.InvoiceLine{Type: entity.LineTypeLabor, Description: "A", Quantity: d("1"), UnitPrice: d("100")},
	)
	require.NoError(t, f.store.Expenses().Create(ctx, &entity.Expense{
		ID: "e1", OrderID: "o1", Category: entity.ExpenseCategoryParts, Description: "Termostato", Amount: d("40"), Date: day(3),
	}))
	f.invoice(t, "o2", "i2", day(15), "60.5",
		&entity.InvoiceLine{Type: entity.LineTypeLabor, Description: "B", Quantity: d("1"), UnitPrice: d("50")},
	)
	f.invoice(t, "o3", "i3", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), "10",
		&entity.InvoiceLine{Type: entity.LineTypeLabor, Description: "C", Quantity: d("1"), UnitPrice: d("999")},
	)
	require.NoError(t, f.store.Orders().Create(ctx, &entity.RepairOrder{ID: "o4"})) // sin factura: no cuenta
	f.income(t, "t1", "", entity.IncomeCategoryTowing, "80", day(12))
	f.income(t, "x1", "", entity.IncomeCategoryOtherEarnings, "15.5", day(30))
	f.income(t, "w1", "o1", entity.IncomeCategoryWorkshop, "121", day(10)) // abono: no es beneficio

	resp, err := f.profit.PeriodProfit(ctx, day(1), day(30))
	require.NoError(t, err)

	require.Len(t, resp.Orders, 2)
	assert.Equal(t, "o1", resp.Orders[0].OrderID)
	assert.True(t, resp.JobsProfit.Equal(d("110")), "60 + 50, got %s", resp.JobsProfit)
	assert.True(t, resp.TowingIncome.Equal(d("80")))
	assert.True(t, resp.OtherEarnings.Equal(d("15.5")))
	assert.True(t, resp.TotalProfit.Equal(d("205.5")))
	assert.Equal(t, "2024-06-01", resp.From)
	assert.Equal(t, "2024-06-30", resp.To)
}
