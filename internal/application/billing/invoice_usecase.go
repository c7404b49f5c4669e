package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/pkg/logger"
)

// InvoiceUseCase consulta y borra facturas ya generadas.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	log         *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner BillingTxRunner, invoiceRepo repository.InvoiceRepository, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, invoiceRepo: invoiceRepo, log: log}
}

// GetInvoice devuelve la factura con sus líneas en orden de impresión.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	return toInvoiceResponse(inv, lines), nil
}

// GetInvoiceByOrder devuelve la factura vigente de la orden.
func (uc *InvoiceUseCase) GetInvoiceByOrder(ctx context.Context, orderID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get invoice by order: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	return toInvoiceResponse(inv, lines), nil
}

// DeleteInvoice borra la factura (las líneas caen en cascada) y los usos de consumibles de la orden
// en la misma transacción. El número no se libera: el contador nunca retrocede.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, invoiceID string) error {
	var number *int64
	err := uc.txRunner.RunBilling(ctx, func(
		_ repository.OrderRepository,
		_ repository.ExpenseRepository,
		consumableRepo repository.ConsumableRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		inv, err := invoiceRepo.GetByID(ctx, invoiceID)
		if err != nil {
			return fmt.Errorf("get invoice: %w", err)
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		number = inv.Number
		if err := invoiceRepo.Delete(ctx, inv.ID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		if err := consumableRepo.DeleteUsagesByOrder(ctx, inv.OrderID); err != nil {
			return fmt.Errorf("delete consumable usages: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if number != nil {
		uc.log.Warn().Str("invoice_id", invoiceID).Int64("number", *number).Msg("factura borrada: el número queda anulado")
	}
	return nil
}
