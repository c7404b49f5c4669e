package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/taller-api/internal/application/billing"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	dombilling "github.com/jhoicas/taller-api/internal/domain/billing"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    *memory.Store
	generate *billing.GenerateInvoiceUseCase
	invoices *billing.InvoiceUseCase
}

func newFixture(t *testing.T, orderIDs ...string) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	for _, id := range orderIDs {
		require.NoError(t, s.Orders().Create(ctx, &entity.RepairOrder{ID: id, Status: entity.OrderStatusInRepair, CreatedAt: time.Now()}))
	}
	return &fixture{
		store:    s,
		generate: billing.NewGenerateInvoiceUseCase(s, dombilling.DefaultTaxRate, logger.Nop()),
		invoices: billing.NewInvoiceUseCase(s, s.Invoices(), logger.Nop()),
	}
}

func (f *fixture) expense(t *testing.T, id, orderID, category, desc, amount string) {
	t.Helper()
	require.NoError(t, f.store.Expenses().Create(context.Background(), &entity.Expense{
		ID: id, OrderID: orderID, Category: category, Description: desc, Amount: d(amount),
		PaymentMethod: entity.PaymentMethodCash, Date: time.Now(), CreatedAt: time.Now(),
	}))
}

func (f *fixture) consumableType(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.store.Consumables().CreateType(context.Background(), &entity.ConsumableType{ID: id, Name: name, Unit: "L"}))
}

func labor(desc, amount string) dto.ProposedLineRequest {
	return dto.ProposedLineRequest{Type: entity.LineTypeLabor, Description: desc, Price: amount}
}

func part(expenseID, price string) dto.ProposedLineRequest {
	return dto.ProposedLineRequest{Type: entity.LineTypePart, ExpenseID: expenseID, Price: price}
}

func taxInvoice(lines ...dto.ProposedLineRequest) dto.GenerateInvoiceRequest {
	return dto.GenerateInvoiceRequest{IsTaxInvoice: true, Lines: lines}
}

// ──────────────────────────────────────────────────────────────────────────────
// Generación básica
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateInvoice_ScenarioB_TotalsAndStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1")
	f.expense(t, "e1", "o1", entity.ExpenseCategoryParts, "Filtro aceite", "30")

	resp, err := f.generate.GenerateInvoice(ctx, "o1", taxInvoice(labor("cambio de aceite", "60"), part("e1", "40")))
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(d("100")))
	assert.True(t, resp.Tax.Equal(d("21")))
	assert.True(t, resp.Total.Equal(d("121")))
	require.NotNil(t, resp.Number)
	assert.Equal(t, int64(1), *resp.Number)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, entity.LineTypeLabor, resp.Lines[0].Type, "mano de obra primero")
	assert.Equal(t, "CAMBIO DE ACEITE", resp.Lines[0].Description)
	assert.Equal(t, "Filtro aceite", resp.Lines[1].Description, "la descripción sale del gasto")

	order, err := f.store.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReadyForPickup, order.Status)
}

func TestGenerateInvoice_ReceiptHasNoNumberNorTax(t *testing.T) {
	f := newFixture(t, "o1")

	resp, err := f.generate.GenerateInvoice(context.Background(), "o1", dto.GenerateInvoiceRequest{Lines: []dto.ProposedLineRequest{labor("x", "50")}})
	require.NoError(t, err)

	assert.Nil(t, resp.Number)
	assert.True(t, resp.Tax.IsZero())
	assert.True(t, resp.Total.Equal(d("50")))
}

func TestGenerateInvoice_ClampsPriceToCost(t *testing.T) {
	f := newFixture(t, "o1")
	f.expense(t, "e1", "o1", entity.ExpenseCategoryParts, "Pastillas", "40")
	f.expense(t, "e2", "o1", entity.ExpenseCategoryExternalWork, "Rectificado", "70")

	resp, err := f.generate.GenerateInvoice(context.Background(), "o1", taxInvoice(
		part("e1", "10"),
		dto.ProposedLineRequest{Type: entity.LineTypeExternalWork, ExpenseID: "e2", Price: "69.99"},
	))
	require.NoError(t, err)

	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.Lines[0].UnitPrice.Equal(d("40")), "nunca por debajo del coste")
	assert.True(t, resp.Lines[1].UnitPrice.Equal(d("70")))
	assert.True(t, resp.Subtotal.Equal(d("110")))
}

func TestGenerateInvoice_DropsInvalidLines(t *testing.T) {
	f := newFixture(t, "o1", "o2")
	f.expense(t, "e1", "o1", entity.ExpenseCategoryParts, "Correa", "25")
	f.expense(t, "e-other", "o2", entity.ExpenseCategoryParts, "Bujías", "12")
	f.expense(t, "e-fuel", "o1", entity.ExpenseCategoryFuel, "Gasoil", "20")
	f.consumableType(t, "bf", "Líquido de frenos")

	resp, err := f.generate.GenerateInvoice(context.Background(), "o1", taxInvoice(
		part("e1", "30"),       // válida
		part("missing", "30"),  // gasto inexistente
		part("e-other", "30"),  // gasto de otra orden
		part("e-fuel", "30"),   // categoría no facturable
		part("e1", "treinta"),  // no numérico
		labor("revisión", "0"), // importe no positivo
		labor("", "10"),        // sin descripción
		dto.ProposedLineRequest{Type: "CONSUMABLE", ConsumableTypeID: "nope", Quantity: "1", Price: "5"},
		dto.ProposedLineRequest{Type: "CONSUMABLE", ConsumableTypeID: "bf", Quantity: "0", Price: "5"},
		dto.ProposedLineRequest{Type: "CONSUMABLE", ConsumableTypeID: "bf", Quantity: "1", Price: "-5"},
		dto.ProposedLineRequest{Type: "WARRANTY", Price: "5"},
	))
	require.NoError(t, err, "las líneas inválidas nunca abortan la factura")

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Correa", resp.Lines[0].Description)
	assert.True(t, resp.Subtotal.Equal(d("30")))

	usages, err := f.store.Consumables().ListUsagesByOrder(context.Background(), "o1")
	require.NoError(t, err)
	assert.Empty(t, usages)
}

func TestGenerateInvoice_ConsumableCreatesUsage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1")
	f.consumableType(t, "bf", "Líquido de frenos")

	resp, err := f.generate.GenerateInvoice(ctx, "o1", taxInvoice(
		dto.ProposedLineRequest{Type: "CONSUMABLE", ConsumableTypeID: "bf", Quantity: "3", Price: "10"},
	))
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "Líquido de frenos", resp.Lines[0].Description)
	assert.True(t, resp.Lines[0].UnitPrice.Equal(d("3.33")))
	assert.True(t, resp.Subtotal.Equal(d("9.99")), "el subtotal es la suma de las líneas guardadas")

	usages, err := f.store.Consumables().ListUsagesByOrder(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.True(t, usages[0].Quantity.Equal(d("3")))
	assert.Equal(t, "bf", usages[0].TypeID)
}

func TestGenerateInvoice_ExpenseBilledOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1")
	f.expense(t, "e1", "o1", entity.ExpenseCategoryParts, "Amortiguador", "40")

	resp, err := f.generate.GenerateInvoice(ctx, "o1", taxInvoice(
		part("e1", "50"),
		part("e1", "50"),
		dto.ProposedLineRequest{Type: entity.LineTypeExternalWork, ExpenseID: "e1", Price: "50"},
	))
	require.NoError(t, err)

	require.Len(t, resp.Lines, 1, "un gasto solo se cobra en una línea")
	assert.Equal(t, "e1", resp.Lines[0].ExpenseID)
	assert.True(t, resp.Subtotal.Equal(d("50")))
}

func TestGenerateInvoice_StoredLinesAddUpToSubtotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1")
	f.consumableType(t, "bf", "Líquido de frenos")

	resp, err := f.generate.GenerateInvoice(ctx, "o1", taxInvoice(
		labor("ajuste", "10.005"),
		labor("revisión", "10.005"),
		dto.ProposedLineRequest{Type: "CONSUMABLE", ConsumableTypeID: "bf", Quantity: "0.125", Price: "1"},
	))
	require.NoError(t, err)

	stored, err := f.invoices.GetInvoiceByOrder(ctx, "o1")
	require.NoError(t, err)
	sum := decimal.Zero
	for _, l := range stored.Lines {
		assert.True(t, l.Quantity.Equal(l.Quantity.Round(2)), "cantidad en céntimos")
		assert.True(t, l.UnitPrice.Equal(l.UnitPrice.Round(2)), "precio en céntimos")
		sum = sum.Add(l.Total)
	}
	assert.True(t, resp.Subtotal.Equal(sum.Round(2)))
	assert.True(t, resp.Subtotal.Equal(d("21.02")))

	usages, err := f.store.Consumables().ListUsagesByOrder(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.True(t, usages[0].Quantity.Equal(d("0.13")), "el uso descuenta lo facturado")
}

func TestGenerateInvoice_OrderNotFoundLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.generate.GenerateInvoice(ctx, "ghost", taxInvoice(labor("x", "10")))
	require.ErrorIs(t, err, domain.ErrNotFound)

	inv, err := f.store.Invoices().GetByOrderID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, inv)

	// el número no se consumió
	n, err := f.store.Invoices().ReserveNextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerateInvoice_NumbersAreSequential(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1", "o2", "o3", "o4")

	var numbers []int64
	for _, id := range []string{"o1", "o2", "o3"} {
		resp, err := f.generate.GenerateInvoice(ctx, id, taxInvoice(labor("x", "10")))
		require.NoError(t, err)
		numbers = append(numbers, *resp.Number)
	}
	receipt, err := f.generate.GenerateInvoice(ctx, "o4", dto.GenerateInvoiceRequest{Lines: []dto.ProposedLineRequest{labor("x", "10")}})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, numbers)
	assert.Nil(t, receipt.Number, "los recibos no consumen número")
}

func TestGenerateInvoice_RegenerationKeepsNumberAndIssueDate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1", "o2")
	issued := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	seven := int64(7)
	require.NoError(t, f.store.Invoices().Create(ctx, &entity.Invoice{
		ID: "old", OrderID: "o1", IssueDate: issued, IsTaxInvoice: true, Number: &seven,
	}))

	resp, err := f.generate.GenerateInvoice(ctx, "o1", taxInvoice(labor("x", "10")))
	require.NoError(t, err)

	require.NotNil(t, resp.Number)
	assert.Equal(t, int64(7), *resp.Number)
	assert.Equal(t, "2024-01-05", resp.IssueDate)
	assert.NotEqual(t, "old", resp.ID)

	other, err := f.generate.GenerateInvoice(ctx, "o2", taxInvoice(labor("x", "10")))
	require.NoError(t, err)
	assert.Equal(t, int64(8), *other.Number)
}

func TestGenerateInvoice_RegenerationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1")
	f.consumableType(t, "oil", "Aceite")
	req := taxInvoice(labor("montaje", "33.33"), dto.ProposedLineRequest{Type: "CONSUMABLE", ConsumableTypeID: "oil", Quantity: "4.5", Price: "40"})

	first, err := f.generate.GenerateInvoice(ctx, "o1", req)
	require.NoError(t, err)
	second, err := f.generate.GenerateInvoice(ctx, "o1", req)
	require.NoError(t, err)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, *first.Number, *second.Number)

	usages, err := f.store.Consumables().ListUsagesByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, usages, 1, "los usos se regeneran, no se duplican")
}

func TestGenerateInvoice_ReissueAsReceiptVoidsNumber(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1", "o2")

	first, err := f.generate.GenerateInvoice(ctx, "o1", taxInvoice(labor("x", "10")))
	require.NoError(t, err)
	require.Equal(t, int64(1), *first.Number)

	receipt, err := f.generate.GenerateInvoice(ctx, "o1", dto.GenerateInvoiceRequest{Lines: []dto.ProposedLineRequest{labor("x", "10")}})
	require.NoError(t, err)
	assert.Nil(t, receipt.Number)

	next, err := f.generate.GenerateInvoice(ctx, "o2", taxInvoice(labor("x", "10")))
	require.NoError(t, err)
	assert.Equal(t, int64(2), *next.Number, "el número anulado no se reutiliza")
}

func TestGenerateInvoice_ConcurrentOrdersGetDistinctNumbers(t *testing.T) {
	ctx := context.Background()
	const n = 20
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("o%02d", i)
	}
	f := newFixture(t, ids...)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
		errs    []error
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			resp, err := f.generate.GenerateInvoice(ctx, id, taxInvoice(labor("x", "10")))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, *resp.Number)
		}(id)
	}
	wg.Wait()

	require.Empty(t, errs)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	want := make([]int64, n)
	for i := range want {
		want[i] = int64(i + 1)
	}
	assert.Equal(t, want, numbers, "exactamente {1..N}")
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad
// ──────────────────────────────────────────────────────────────────────────────

var errBoom = errors.New("boom")

type failingTotals struct{ repository.InvoiceRepository }

func (failingTotals) UpdateTotals(context.Context, *entity.Invoice) error { return errBoom }

type failingRunner struct{ s *memory.Store }

func (r failingRunner) RunBilling(ctx context.Context, fn func(
	repository.OrderRepository, repository.ExpenseRepository, repository.ConsumableRepository, repository.InvoiceRepository,
) error) error {
	return r.s.RunBilling(ctx, func(o repository.OrderRepository, e repository.ExpenseRepository, c repository.ConsumableRepository, i repository.InvoiceRepository) error {
		return fn(o, e, c, failingTotals{i})
	})
}

func TestGenerateInvoice_StorageErrorKeepsPriorInvoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1")
	f.consumableType(t, "bf", "Líquido de frenos")
	prior, err := f.generate.GenerateInvoice(ctx, "o1", taxInvoice(
		dto.ProposedLineRequest{Type: "CONSUMABLE", ConsumableTypeID: "bf", Quantity: "2", Price: "10"},
	))
	require.NoError(t, err)

	broken := billing.NewGenerateInvoiceUseCase(failingRunner{f.store}, dombilling.DefaultTaxRate, logger.Nop())
	_, err = broken.GenerateInvoice(ctx, "o1", taxInvoice(labor("otra cosa", "99")))
	require.ErrorIs(t, err, errBoom)

	current, err := f.invoices.GetInvoiceByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, prior.ID, current.ID)
	assert.True(t, current.Total.Equal(prior.Total))
	require.Len(t, current.Lines, 1)

	usages, err := f.store.Consumables().ListUsagesByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, usages, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consulta y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceUseCase_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "o1", "o2")
	f.consumableType(t, "bf", "Líquido de frenos")
	f.expense(t, "e1", "o1", entity.ExpenseCategoryExternalWork, "Grúa", "50")

	created, err := f.generate.GenerateInvoice(ctx, "o1", taxInvoice(
		dto.ProposedLineRequest{Type: entity.LineTypeExternalWork, ExpenseID: "e1", Price: "80"},
		dto.ProposedLineRequest{Type: "CONSUMABLE", ConsumableTypeID: "bf", Quantity: "1", Price: "8"},
		labor("diagnosis", "20"),
	))
	require.NoError(t, err)

	got, err := f.invoices.GetInvoice(ctx, created.ID)
	require.NoError(t, err)
	types := []string{got.Lines[0].Type, got.Lines[1].Type, got.Lines[2].Type}
	assert.Equal(t, []string{entity.LineTypeLabor, entity.LineTypeConsumable, entity.LineTypeExternalWork}, types)

	require.NoError(t, f.invoices.DeleteInvoice(ctx, created.ID))

	_, err = f.invoices.GetInvoice(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.invoices.GetInvoiceByOrder(ctx, "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.invoices.DeleteInvoice(ctx, created.ID), domain.ErrNotFound)

	usages, err := f.store.Consumables().ListUsagesByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Empty(t, usages)

	next, err := f.generate.GenerateInvoice(ctx, "o2", taxInvoice(labor("x", "1")))
	require.NoError(t, err)
	assert.Equal(t, int64(2), *next.Number, "borrar no libera el número")
}
