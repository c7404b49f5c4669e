package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/billing"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/domain/stock"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// RegisterMovementUseCase da de alta tipos de consumible y los eventos manuales del libro de stock
// (compras y ajustes). Los usos solo los crea la facturación.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, log: log}
}

// CreateType da de alta un tipo de consumible. Nombre duplicado => ErrConflict.
func (uc *RegisterMovementUseCase) CreateType(ctx context.Context, in dto.CreateConsumableTypeRequest) (*dto.ConsumableTypeResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.MinStock != nil && in.MinStock.IsNegative() {
		return nil, fmt.Errorf("%w: min_stock must not be negative", domain.ErrInvalidInput)
	}

	t := &entity.ConsumableType{ID: uuid.New().String(), Name: in.Name, Unit: in.Unit, MinStock: in.MinStock}
	err := uc.txRunner.Run(ctx, func(consumableRepo repository.ConsumableRepository) error {
		return consumableRepo.CreateType(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("type_id", t.ID).Str("name", t.Name).Msg("tipo de consumible creado")
	return &dto.ConsumableTypeResponse{ID: t.ID, Name: t.Name, Unit: t.Unit, MinStock: t.MinStock}, nil
}

// RegisterPurchase registra una compra (o el stock inicial) de un tipo existente.
// Cantidad > 0 y coste total >= 0; la fecha por defecto es hoy.
func (uc *RegisterMovementUseCase) RegisterPurchase(ctx context.Context, in dto.RegisterPurchaseRequest) (*dto.StockEventResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) || in.TotalCost.IsNegative() {
		return nil, fmt.Errorf("%w: quantity must be positive and total_cost not negative", domain.ErrInvalidInput)
	}
	date, err := parseDateOrToday(in.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.ConsumablePurchase{
		ID:        uuid.New().String(),
		TypeID:    in.TypeID,
		Date:      date,
		Quantity:  in.Quantity,
		TotalCost: in.TotalCost,
		CreatedAt: now,
	}
	var current decimal.Decimal
	err = uc.txRunner.Run(ctx, func(consumableRepo repository.ConsumableRepository) error {
		if err := ensureType(ctx, consumableRepo, in.TypeID); err != nil {
			return err
		}
		if err := consumableRepo.CreatePurchase(ctx, p); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		ledger, err := loadLedger(ctx, consumableRepo, in.TypeID)
		if err != nil {
			return err
		}
		current = ledger.Current()
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("type_id", in.TypeID).Str("quantity", p.Quantity.String()).Msg("compra de consumible registrada")
	return &dto.StockEventResponse{
		ID:           p.ID,
		TypeID:       p.TypeID,
		Date:         p.Date.Format(dto.DateLayout),
		Quantity:     p.Quantity,
		UnitCost:     stock.UnitCost(p.Quantity, p.TotalCost),
		CurrentStock: current,
	}, nil
}

// RegisterAdjustment registra una corrección manual con signo. El motivo se guarda en mayúsculas.
func (uc *RegisterMovementUseCase) RegisterAdjustment(ctx context.Context, in dto.RegisterAdjustmentRequest) (*dto.StockEventResponse, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if in.Quantity.IsZero() {
		return nil, fmt.Errorf("%w: quantity must not be zero", domain.ErrInvalidInput)
	}
	date, err := parseDateOrToday(in.Date)
	if err != nil {
		return nil, err
	}

	a := &entity.StockAdjustment{
		ID:        uuid.New().String(),
		TypeID:    in.TypeID,
		Quantity:  in.Quantity,
		Reason:    billing.UpperES(in.Reason),
		Date:      date,
		CreatedAt: time.Now(),
	}
	var current decimal.Decimal
	err = uc.txRunner.Run(ctx, func(consumableRepo repository.ConsumableRepository) error {
		if err := ensureType(ctx, consumableRepo, in.TypeID); err != nil {
			return err
		}
		if err := consumableRepo.CreateAdjustment(ctx, a); err != nil {
			return fmt.Errorf("create adjustment: %w", err)
		}
		ledger, err := loadLedger(ctx, consumableRepo, in.TypeID)
		if err != nil {
			return err
		}
		current = ledger.Current()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if current.IsNegative() {
		uc.log.Warn().Str("type_id", in.TypeID).Str("current_stock", current.String()).Msg("stock negativo tras el ajuste")
	}
	return &dto.StockEventResponse{
		ID:           a.ID,
		TypeID:       a.TypeID,
		Date:         a.Date.Format(dto.DateLayout),
		Quantity:     a.Quantity,
		Reason:       a.Reason,
		CurrentStock: current,
	}, nil
}

func ensureType(ctx context.Context, repo repository.ConsumableRepository, typeID string) error {
	t, err := repo.GetType(ctx, typeID)
	if err != nil {
		return fmt.Errorf("get consumable type: %w", err)
	}
	if t == nil {
		return domain.ErrNotFound
	}
	return nil
}

func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		return stock.Day(time.Now()), nil
	}
	t, err := time.ParseInLocation(dto.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}
