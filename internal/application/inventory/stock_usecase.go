package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/domain/stock"
)

// StockUseCase expone el stock calculado de los consumibles. Solo lectura: el stock
// nunca se guarda, se recalcula desde compras, usos y ajustes.
type StockUseCase struct {
	consumableRepo repository.ConsumableRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(consumableRepo repository.ConsumableRepository) *StockUseCase {
	return &StockUseCase{consumableRepo: consumableRepo}
}

// Snapshot devuelve el stock de un tipo. NotFound si el tipo no existe.
func (uc *StockUseCase) Snapshot(ctx context.Context, typeID string) (*dto.StockSnapshot, error) {
	t, err := uc.consumableRepo.GetType(ctx, typeID)
	if err != nil {
		return nil, fmt.Errorf("get consumable type: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	ledger, err := loadLedger(ctx, uc.consumableRepo, typeID)
	if err != nil {
		return nil, err
	}
	snap := toSnapshot(t, ledger)
	return &snap, nil
}

// ListSnapshots devuelve una foto por tipo, ordenadas por nombre.
func (uc *StockUseCase) ListSnapshots(ctx context.Context) ([]dto.StockSnapshot, error) {
	types, err := uc.consumableRepo.ListTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list consumable types: %w", err)
	}
	purchases, err := uc.consumableRepo.ListPurchases(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	usages, err := uc.consumableRepo.ListUsages(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list usages: %w", err)
	}
	adjustments, err := uc.consumableRepo.ListAdjustments(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}

	ledgers := stock.Build(purchases, usages, adjustments)
	out := make([]dto.StockSnapshot, 0, len(types))
	for _, t := range types {
		ledger := stock.Ledger{}
		if l, ok := ledgers[t.ID]; ok {
			ledger = *l
		}
		out = append(out, toSnapshot(t, ledger))
	}
	return out, nil
}

// LowStockAlerts devuelve solo los tipos en o por debajo de su mínimo.
func (uc *StockUseCase) LowStockAlerts(ctx context.Context) ([]dto.StockSnapshot, error) {
	all, err := uc.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]dto.StockSnapshot, 0)
	for _, s := range all {
		if s.IsLow {
			low = append(low, s)
		}
	}
	return low, nil
}

func loadLedger(ctx context.Context, repo repository.ConsumableRepository, typeID string) (stock.Ledger, error) {
	purchases, err := repo.ListPurchases(ctx, typeID)
	if err != nil {
		return stock.Ledger{}, fmt.Errorf("list purchases: %w", err)
	}
	usages, err := repo.ListUsages(ctx, typeID)
	if err != nil {
		return stock.Ledger{}, fmt.Errorf("list usages: %w", err)
	}
	adjustments, err := repo.ListAdjustments(ctx, typeID)
	if err != nil {
		return stock.Ledger{}, fmt.Errorf("list adjustments: %w", err)
	}
	return stock.Ledger{Purchases: purchases, Usages: usages, Adjustments: adjustments}, nil
}

func toSnapshot(t *entity.ConsumableType, ledger stock.Ledger) dto.StockSnapshot {
	snap := dto.StockSnapshot{
		TypeID:       t.ID,
		Name:         t.Name,
		Unit:         t.Unit,
		CurrentStock: ledger.Current(),
		MinStock:     t.MinStock,
		IsLow:        ledger.IsLow(t.MinStock),
		LastUnitCost: ledger.LastUnitCost(),
	}
	switch {
	case t.MinStock == nil:
		snap.Alert = dto.StockAlertNone
	case snap.IsLow:
		snap.Alert = dto.StockAlertLow
	default:
		snap.Alert = dto.StockAlertOK
	}
	return snap
}
