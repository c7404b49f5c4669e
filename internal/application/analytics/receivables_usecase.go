package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/billing"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReceivablesUseCase compara el total de cada factura con los abonos de su orden.
type ReceivablesUseCase struct {
	invoiceRepo repository.InvoiceRepository
	incomeRepo  repository.IncomeRepository
}

// NewReceivablesUseCase construye el caso de uso.
func NewReceivablesUseCase(invoiceRepo repository.InvoiceRepository, incomeRepo repository.IncomeRepository) *ReceivablesUseCase {
	return &ReceivablesUseCase{invoiceRepo: invoiceRepo, incomeRepo: incomeRepo}
}

// Outstanding devuelve el saldo pendiente de una factura.
func (uc *ReceivablesUseCase) Outstanding(ctx context.Context, invoiceID string) (*dto.OutstandingResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	item, err := uc.outstanding(ctx, inv)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// PendingReceivables lista las facturas emitidas en [from, to] con saldo > 0.01,
// por fecha de emisión e ID, y la suma de sus saldos.
func (uc *ReceivablesUseCase) PendingReceivables(ctx context.Context, from, to time.Time) (*dto.ReceivablesResponse, error) {
	from, to = periodBounds(from, to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period ends before it starts", domain.ErrInvalidInput)
	}
	invoices, err := uc.invoiceRepo.ListByIssueDate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	resp := &dto.ReceivablesResponse{
		From:             from.Format(dto.DateLayout),
		To:               to.Format(dto.DateLayout),
		Items:            make([]dto.OutstandingResponse, 0),
		TotalOutstanding: decimal.Zero,
	}
	for _, inv := range invoices {
		item, err := uc.outstanding(ctx, inv)
		if err != nil {
			return nil, err
		}
		if !item.Pending {
			continue
		}
		resp.Items = append(resp.Items, item)
		resp.TotalOutstanding = resp.TotalOutstanding.Add(item.Outstanding)
	}
	return resp, nil
}

func (uc *ReceivablesUseCase) outstanding(ctx context.Context, inv *entity.Invoice) (dto.OutstandingResponse, error) {
	payments, err := uc.incomeRepo.ListByOrder(ctx, inv.OrderID)
	if err != nil {
		return dto.OutstandingResponse{}, fmt.Errorf("list order payments: %w", err)
	}
	out := billing.Outstanding(inv.Total, payments)
	return dto.OutstandingResponse{
		InvoiceID:     inv.ID,
		OrderID:       inv.OrderID,
		InvoiceNumber: inv.Number,
		IssueDate:     inv.IssueDate.Format(dto.DateLayout),
		Total:         inv.Total,
		Paid:          billing.Paid(payments),
		Outstanding:   out,
		Pending:       billing.IsPending(out),
	}, nil
}
