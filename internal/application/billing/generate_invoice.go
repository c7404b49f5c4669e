package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	dombilling "github.com/jhoicas/taller-api/internal/domain/billing"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/domain/stock"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// GenerateInvoiceUseCase genera (o regenera) la factura de una orden de reparación.
type GenerateInvoiceUseCase struct {
	txRunner BillingTxRunner
	taxRate  decimal.Decimal
	log      *logger.Logger
}

// NewGenerateInvoiceUseCase construye el caso de uso. taxRate es el IVA (0.21).
func NewGenerateInvoiceUseCase(txRunner BillingTxRunner, taxRate decimal.Decimal, log *logger.Logger) *GenerateInvoiceUseCase {
	return &GenerateInvoiceUseCase{txRunner: txRunner, taxRate: taxRate, log: log}
}

// GenerateInvoice reemplaza la factura de la orden en una única transacción:
//
//  1. bloquea la orden (NotFound si no existe, sin cambios);
//  2. borra la factura previa y los usos de consumibles de la orden, conservando número y fecha;
//  3. asigna número (reutiliza el previo o reserva el siguiente) solo si es factura con IVA;
//  4. crea las líneas válidas; las inválidas se descartan sin error;
//  5. congela totales y pasa la orden a READY_FOR_PICKUP.
//
// Cualquier error de almacenamiento deshace todo y la factura anterior queda intacta.
func (uc *GenerateInvoiceUseCase) GenerateInvoice(ctx context.Context, orderID string, in dto.GenerateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var inv *entity.Invoice
	var lines []*entity.InvoiceLine

	err := uc.txRunner.RunBilling(ctx, func(
		orderRepo repository.OrderRepository,
		expenseRepo repository.ExpenseRepository,
		consumableRepo repository.ConsumableRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		// 1) Bloquear la orden: serializa regeneraciones de la misma orden
		order, err := orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("lock repair order: %w", err)
		}
		if order == nil {
			return domain.ErrNotFound
		}

		// 2) Factura previa: capturar número y fecha, borrar factura y usos
		var priorNumber *int64
		issueDate := stock.Day(now)
		prior, err := invoiceRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("get prior invoice: %w", err)
		}
		if prior != nil {
			if prior.IsTaxInvoice && prior.Number != nil {
				priorNumber = prior.Number
			}
			issueDate = prior.IssueDate
			if err := invoiceRepo.Delete(ctx, prior.ID); err != nil {
				return fmt.Errorf("delete prior invoice: %w", err)
			}
		}
		if err := consumableRepo.DeleteUsagesByOrder(ctx, orderID); err != nil {
			return fmt.Errorf("delete consumable usages: %w", err)
		}

		// 3) Número legal: solo facturas con IVA; nunca se reutiliza uno ajeno
		var number *int64
		switch {
		case in.IsTaxInvoice && priorNumber != nil:
			number = priorNumber
		case in.IsTaxInvoice:
			n, err := invoiceRepo.ReserveNextNumber(ctx)
			if err != nil {
				return fmt.Errorf("reserve invoice number: %w", err)
			}
			number = &n
		case priorNumber != nil:
			uc.log.Warn().Str("order_id", orderID).Int64("number", *priorNumber).
				Msg("factura reemitida como recibo: el número queda anulado")
		}

		inv = &entity.Invoice{
			ID:           uuid.New().String(),
			OrderID:      orderID,
			IssueDate:    issueDate,
			IsTaxInvoice: in.IsTaxInvoice,
			Number:       number,
			Subtotal:     decimal.Zero,
			Tax:          decimal.Zero,
			Total:        decimal.Zero,
			Notes:        in.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		// 4) Líneas; cada gasto se factura una sola vez
		lines = make([]*entity.InvoiceLine, 0, len(in.Lines))
		billed := make(map[string]bool)
		for i, raw := range in.Lines {
			line, err := uc.buildLine(ctx, orderID, raw, expenseRepo, consumableRepo)
			if err == nil && line.ExpenseID != "" {
				if billed[line.ExpenseID] {
					err = fmt.Errorf("%w: expense %s already billed", errLineDropped, line.ExpenseID)
				} else {
					billed[line.ExpenseID] = true
				}
			}
			if errors.Is(err, errLineDropped) || errors.Is(err, domain.ErrInvalidInput) {
				uc.log.Debug().Str("order_id", orderID).Int("line", i).Err(err).Msg("línea descartada")
				continue
			}
			if err != nil {
				return err
			}
			line.ID = uuid.New().String()
			line.InvoiceID = inv.ID
			line.Position = len(lines)
			if err := invoiceRepo.CreateLine(ctx, line); err != nil {
				return fmt.Errorf("create invoice line: %w", err)
			}
			if line.Type == entity.LineTypeConsumable {
				usage := &entity.ConsumableUsage{
					ID:       uuid.New().String(),
					OrderID:  orderID,
					TypeID:   line.ConsumableTypeID,
					Quantity: line.Quantity,
					Date:     stock.Day(now),
				}
				if err := consumableRepo.CreateUsage(ctx, usage); err != nil {
					return fmt.Errorf("create consumable usage: %w", err)
				}
			}
			lines = append(lines, line)
		}

		// 5) Totales congelados y estado de la orden
		totals := dombilling.ComputeTotals(lines, in.IsTaxInvoice, uc.taxRate)
		inv.Subtotal, inv.Tax, inv.Total = totals.Subtotal, totals.Tax, totals.Total
		if err := invoiceRepo.UpdateTotals(ctx, inv); err != nil {
			return fmt.Errorf("update invoice totals: %w", err)
		}
		if err := orderRepo.UpdateStatus(ctx, orderID, entity.OrderStatusReadyForPickup); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info().Str("order_id", orderID).Str("invoice_id", inv.ID).Str("total", inv.Total.StringFixed(2))
	if inv.Number != nil {
		ev = ev.Int64("number", *inv.Number)
	}
	ev.Msg("factura generada")

	return toInvoiceResponse(inv, lines), nil
}

var errLineDropped = errors.New("line dropped")

// buildLine convierte una línea propuesta en InvoiceLine. errLineDropped o ErrInvalidInput
// significan "descartar"; cualquier otro error es de almacenamiento y aborta la generación.
func (uc *GenerateInvoiceUseCase) buildLine(
	ctx context.Context,
	orderID string,
	raw dto.ProposedLineRequest,
	expenseRepo repository.ExpenseRepository,
	consumableRepo repository.ConsumableRepository,
) (*entity.InvoiceLine, error) {
	proposed, err := dombilling.ParseProposedLine(dombilling.RawLine{
		Type:             raw.Type,
		ExpenseID:        raw.ExpenseID,
		ConsumableTypeID: raw.ConsumableTypeID,
		Description:      raw.Description,
		Quantity:         raw.Quantity,
		Price:            raw.Price,
	})
	if err != nil {
		return nil, err
	}

	switch l := proposed.(type) {
	case dombilling.PartLine:
		return linkedExpenseLine(ctx, orderID, entity.LineTypePart, entity.ExpenseCategoryParts, l.ExpenseID, l.Price, expenseRepo)
	case dombilling.ExternalWorkLine:
		return linkedExpenseLine(ctx, orderID, entity.LineTypeExternalWork, entity.ExpenseCategoryExternalWork, l.ExpenseID, l.Price, expenseRepo)
	case dombilling.ConsumableLine:
		t, err := consumableRepo.GetType(ctx, l.TypeID)
		if err != nil {
			return nil, fmt.Errorf("get consumable type: %w", err)
		}
		if t == nil {
			return nil, fmt.Errorf("%w: unknown consumable type %s", errLineDropped, l.TypeID)
		}
		return &entity.InvoiceLine{
			Type:             entity.LineTypeConsumable,
			Description:      t.Name,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice(),
			ConsumableTypeID: t.ID,
		}, nil
	case dombilling.LaborLine:
		return &entity.InvoiceLine{
			Type:        entity.LineTypeLabor,
			Description: l.Description,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   l.Amount,
		}, nil
	default:
		return nil, errLineDropped
	}
}

// linkedExpenseLine crea una línea de repuesto o trabajo externo a partir del gasto de la orden.
// El precio nunca queda por debajo del coste.
func linkedExpenseLine(
	ctx context.Context,
	orderID, lineType, category, expenseID string,
	price decimal.Decimal,
	expenseRepo repository.ExpenseRepository,
) (*entity.InvoiceLine, error) {
	expense, err := expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if expense == nil || expense.OrderID != orderID || expense.Category != category {
		return nil, fmt.Errorf("%w: expense %s not linked to order as %s", errLineDropped, expenseID, category)
	}
	return &entity.InvoiceLine{
		Type:        lineType,
		Description: expense.Description,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   dombilling.ClampToCost(price, expense.Amount),
		ExpenseID:   expense.ID,
	}, nil
}

func toInvoiceResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	sorted := make([]*entity.InvoiceLine, len(lines))
	copy(sorted, lines)
	dombilling.SortForDisplay(sorted)

	resp := &dto.InvoiceResponse{
		ID:           inv.ID,
		OrderID:      inv.OrderID,
		IssueDate:    inv.IssueDate.Format(dto.DateLayout),
		IsTaxInvoice: inv.IsTaxInvoice,
		Number:       inv.Number,
		Subtotal:     inv.Subtotal,
		Tax:          inv.Tax,
		Total:        inv.Total,
		Notes:        inv.Notes,
		Lines:        make([]dto.InvoiceLineResponse, 0, len(sorted)),
	}
	for _, l := range sorted {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:               l.ID,
			Type:             l.Type,
			Description:      l.Description,
			Quantity:         l.Quantity,
			UnitPrice:        l.UnitPrice,
			Total:            l.Total(),
			ExpenseID:        l.ExpenseID,
			ConsumableTypeID: l.ConsumableTypeID,
		})
	}
	return resp
}
