package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/domain/stock"
	"github.com/jhoicas/taller-api/pkg/logger"
)

var validate = validator.New()

var expenseCategories = map[string]bool{
	entity.ExpenseCategoryParts:              true,
	entity.ExpenseCategoryExternalWork:       true,
	entity.ExpenseCategoryWages:              true,
	entity.ExpenseCategoryTools:              true,
	entity.ExpenseCategorySupplies:           true,
	entity.ExpenseCategoryFuel:               true,
	entity.ExpenseCategoryConsumablePurchase: true,
	entity.ExpenseCategoryOther:              true,
}

var incomeCategories = map[string]bool{
	entity.IncomeCategoryWorkshop:      true,
	entity.IncomeCategoryTowing:        true,
	entity.IncomeCategoryOtherEarnings: true,
	entity.IncomeCategoryOther:         true,
}

// RecordsUseCase da de alta órdenes, gastos e ingresos: los datos de origen que
// consumen facturación, rentabilidad y cobros.
type RecordsUseCase struct {
	orderRepo   repository.OrderRepository
	expenseRepo repository.ExpenseRepository
	incomeRepo  repository.IncomeRepository
	log         *logger.Logger
}

// NewRecordsUseCase construye el caso de uso.
func NewRecordsUseCase(
	orderRepo repository.OrderRepository,
	expenseRepo repository.ExpenseRepository,
	incomeRepo repository.IncomeRepository,
	log *logger.Logger,
) *RecordsUseCase {
	return &RecordsUseCase{orderRepo: orderRepo, expenseRepo: expenseRepo, incomeRepo: incomeRepo, log: log}
}

// CreateOrder abre una orden en estado RECEIVED.
func (uc *RecordsUseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	o := &entity.RepairOrder{
		ID:        uuid.New().String(),
		ClientID:  in.ClientID,
		VehicleID: in.VehicleID,
		Status:    entity.OrderStatusReceived,
		CreatedAt: time.Now(),
	}
	if err := uc.orderRepo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	uc.log.Info().Str("order_id", o.ID).Msg("orden creada")
	return &dto.OrderResponse{
		ID:        o.ID,
		ClientID:  o.ClientID,
		VehicleID: o.VehicleID,
		Status:    o.Status,
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}, nil
}

// RecordExpense registra un gasto. Los de PARTS y EXTERNAL_WORK vinculados a una orden
// son los costes que reclaman las líneas de factura.
func (uc *RecordsUseCase) RecordExpense(ctx context.Context, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.prepare(ctx, in, expenseCategories)
	if err != nil {
		return nil, err
	}
	e := entity.Expense(*m)
	if err := uc.expenseRepo.Create(ctx, &e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return toMovementResponse(m), nil
}

// RecordIncome registra un ingreso. Vinculado a una orden cuenta como abono.
func (uc *RecordsUseCase) RecordIncome(ctx context.Context, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.prepare(ctx, in, incomeCategories)
	if err != nil {
		return nil, err
	}
	if err := uc.incomeRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create income: %w", err)
	}
	return toMovementResponse(m), nil
}

// prepare valida la petición y construye el movimiento. Expense e Income comparten forma.
func (uc *RecordsUseCase) prepare(ctx context.Context, in dto.RecordMovementRequest, allowed map[string]bool) (*entity.Income, error) {
	in.Category = strings.ToUpper(strings.TrimSpace(in.Category))
	in.PaymentMethod = strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !allowed[in.Category] {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, in.Category)
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if in.OrderID != "" {
		o, err := uc.orderRepo.GetByID(ctx, in.OrderID)
		if err != nil {
			return nil, fmt.Errorf("get order: %w", err)
		}
		if o == nil {
			return nil, fmt.Errorf("order %s: %w", in.OrderID, domain.ErrNotFound)
		}
	}
	date := stock.Day(time.Now())
	if in.Date != "" {
		var err error
		if date, err = time.ParseInLocation(dto.DateLayout, in.Date, time.Local); err != nil {
			return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidInput, in.Date)
		}
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentMethodCash
	}
	return &entity.Income{
		ID:            uuid.New().String(),
		OrderID:       in.OrderID,
		Category:      in.Category,
		Amount:        in.Amount.Round(2),
		Description:   strings.TrimSpace(in.Description),
		PaymentMethod: in.PaymentMethod,
		Date:          date,
		CreatedAt:     time.Now(),
	}, nil
}

func toMovementResponse(m *entity.Income) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		OrderID:       m.OrderID,
		Category:      m.Category,
		Amount:        m.Amount,
		Description:   m.Description,
		PaymentMethod: m.PaymentMethod,
		Date:          m.Date.Format(dto.DateLayout),
	}
}
