package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func seedOrder(t *testing.T, s *memory.Store, id string) {
	t.Helper()
	require.NoError(t, s.Orders().Create(context.Background(), &entity.RepairOrder{
		ID: id, Status: entity.OrderStatusInRepair, CreatedAt: time.Now(),
	}))
}

func TestRunBilling_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedOrder(t, s, "o1")

	err := s.RunBilling(ctx, func(orders repository.OrderRepository, _ repository.ExpenseRepository,
		consumables repository.ConsumableRepository, invoices repository.InvoiceRepository) error {
		n, err := invoices.ReserveNextNumber(ctx)
		require.NoError(t, err)
		require.NoError(t, invoices.Create(ctx, &entity.Invoice{ID: "i1", OrderID: "o1", IsTaxInvoice: true, Number: &n}))
		require.NoError(t, consumables.CreateUsage(ctx, &entity.ConsumableUsage{ID: "u1", OrderID: "o1", TypeID: "t", Quantity: decimal.NewFromInt(1)}))
		require.NoError(t, orders.UpdateStatus(ctx, "o1", entity.OrderStatusReadyForPickup))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	inv, err := s.Invoices().GetByOrderID(ctx, "o1")
	require.NoError(t, err)
	assert.Nil(t, inv)

	usages, err := s.Consumables().ListUsagesByOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Empty(t, usages)

	order, err := s.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusInRepair, order.Status)

	// el número reservado en la tx abortada vuelve a estar libre
	err = s.RunBilling(ctx, func(_ repository.OrderRepository, _ repository.ExpenseRepository,
		_ repository.ConsumableRepository, invoices repository.InvoiceRepository) error {
		n, err := invoices.ReserveNextNumber(ctx)
		assert.Equal(t, int64(1), n)
		return err
	})
	require.NoError(t, err)
}

func TestReserveNextNumber_NeverReusesAfterDelete(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedOrder(t, s, "o1")

	var first int64
	require.NoError(t, s.RunBilling(ctx, func(_ repository.OrderRepository, _ repository.ExpenseRepository,
		_ repository.ConsumableRepository, invoices repository.InvoiceRepository) error {
		n, err := invoices.ReserveNextNumber(ctx)
		if err != nil {
			return err
		}
		first = n
		return invoices.Create(ctx, &entity.Invoice{ID: "i1", OrderID: "o1", IsTaxInvoice: true, Number: &n})
	}))
	require.NoError(t, s.Invoices().Delete(ctx, "i1"))

	next, err := s.Invoices().ReserveNextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, first+1, next)
}

func TestInvoiceRepo_OneInvoicePerOrder(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	require.NoError(t, s.Invoices().Create(ctx, &entity.Invoice{ID: "i1", OrderID: "o1"}))
	err := s.Invoices().Create(ctx, &entity.Invoice{ID: "i2", OrderID: "o1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReads_ReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedOrder(t, s, "o1")

	o, err := s.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	o.Status = entity.OrderStatusDelivered

	again, err := s.Orders().GetByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusInRepair, again.Status)
}

func TestExpenseRepo_ListByOrderIsChronological(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	for _, e := range []*entity.Expense{
		{ID: "c", OrderID: "o1", Category: entity.ExpenseCategoryParts, Date: day(3)},
		{ID: "a", OrderID: "o1", Category: entity.ExpenseCategoryExternalWork, Date: day(1)},
		{ID: "b", OrderID: "o1", Category: entity.ExpenseCategoryFuel, Date: day(2)},
		{ID: "z", OrderID: "o2", Category: entity.ExpenseCategoryParts, Date: day(1)},
	} {
		require.NoError(t, s.Expenses().Create(ctx, e))
	}

	got, err := s.Expenses().ListByOrder(ctx, "o1", entity.ExpenseCategoryParts, entity.ExpenseCategoryExternalWork)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
