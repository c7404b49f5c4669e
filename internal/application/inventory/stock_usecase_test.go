package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/application/inventory"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/infrastructure/memory"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(v decimal.Decimal) *decimal.Decimal { return &v }

func setup() (*memory.Store, *inventory.StockUseCase, *inventory.RegisterMovementUseCase) {
	s := memory.NewStore()
	return s, inventory.NewStockUseCase(s.Consumables()), inventory.NewRegisterMovementUseCase(s, logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario A a través de los casos de uso
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_ScenarioA(t *testing.T) {
	ctx := context.Background()
	s, stockUC, movUC := setup()

	bf, err := movUC.CreateType(ctx, dto.CreateConsumableTypeRequest{Name: "Líquido de frenos", Unit: "L", MinStock: ptr(d("12"))})
	require.NoError(t, err)

	_, err = movUC.RegisterPurchase(ctx, dto.RegisterPurchaseRequest{TypeID: bf.ID, Date: "2024-03-01", Quantity: d("10"), TotalCost: d("50")})
	require.NoError(t, err)
	ev, err := movUC.RegisterPurchase(ctx, dto.RegisterPurchaseRequest{TypeID: bf.ID, Date: "2024-03-10", Quantity: d("5"), TotalCost: d("30")})
	require.NoError(t, err)
	assert.True(t, ev.UnitCost.Equal(d("6")))
	assert.True(t, ev.CurrentStock.Equal(d("15")))

	// los usos solo los crea la facturación
	require.NoError(t, s.Consumables().CreateUsage(ctx, &entity.ConsumableUsage{ID: "u1", OrderID: "o1", TypeID: bf.ID, Quantity: d("3"), Date: time.Now()}))

	snap, err := stockUC.Snapshot(ctx, bf.ID)
	require.NoError(t, err)
	assert.True(t, snap.CurrentStock.Equal(d("12")))
	assert.True(t, snap.IsLow)
	assert.Equal(t, dto.StockAlertLow, snap.Alert)
	assert.True(t, snap.LastUnitCost.Equal(d("6")))
}

func TestStock_AdjustmentAndAlerts(t *testing.T) {
	ctx := context.Background()
	_, stockUC, movUC := setup()

	oil, err := movUC.CreateType(ctx, dto.CreateConsumableTypeRequest{Name: "Aceite", Unit: "L", MinStock: ptr(d("2"))})
	require.NoError(t, err)
	rags, err := movUC.CreateType(ctx, dto.CreateConsumableTypeRequest{Name: "Trapos", Unit: "kg"})
	require.NoError(t, err)

	_, err = movUC.RegisterPurchase(ctx, dto.RegisterPurchaseRequest{TypeID: oil.ID, Quantity: d("5"), TotalCost: d("40")})
	require.NoError(t, err)
	adj, err := movUC.RegisterAdjustment(ctx, dto.RegisterAdjustmentRequest{TypeID: oil.ID, Quantity: d("-3.5"), Reason: "derrame en foso"})
	require.NoError(t, err)
	assert.Equal(t, "DERRAME EN FOSO", adj.Reason)
	assert.True(t, adj.CurrentStock.Equal(d("1.5")))

	all, err := stockUC.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Aceite", all[0].Name)
	assert.Equal(t, rags.ID, all[1].TypeID)
	assert.Equal(t, dto.StockAlertNone, all[1].Alert, "sin mínimo no hay alerta")
	assert.True(t, all[1].CurrentStock.IsZero())

	low, err := stockUC.LowStockAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, oil.ID, low[0].TypeID)
}

func TestStock_Validation(t *testing.T) {
	ctx := context.Background()
	_, stockUC, movUC := setup()

	_, err := stockUC.Snapshot(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = movUC.CreateType(ctx, dto.CreateConsumableTypeRequest{Name: "  ", Unit: "L"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bf, err := movUC.CreateType(ctx, dto.CreateConsumableTypeRequest{Name: "Líquido de frenos", Unit: "L"})
	require.NoError(t, err)
	_, err = movUC.CreateType(ctx, dto.CreateConsumableTypeRequest{Name: "Líquido de frenos", Unit: "L"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = movUC.RegisterPurchase(ctx, dto.RegisterPurchaseRequest{TypeID: bf.ID, Quantity: decimal.Zero, TotalCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = movUC.RegisterPurchase(ctx, dto.RegisterPurchaseRequest{TypeID: bf.ID, Quantity: d("1"), TotalCost: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = movUC.RegisterPurchase(ctx, dto.RegisterPurchaseRequest{TypeID: bf.ID, Date: "01/03/2024", Quantity: d("1"), TotalCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = movUC.RegisterPurchase(ctx, dto.RegisterPurchaseRequest{TypeID: "missing", Quantity: d("1"), TotalCost: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = movUC.RegisterAdjustment(ctx, dto.RegisterAdjustmentRequest{TypeID: bf.ID, Quantity: decimal.Zero, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = movUC.RegisterAdjustment(ctx, dto.RegisterAdjustmentRequest{TypeID: bf.ID, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
