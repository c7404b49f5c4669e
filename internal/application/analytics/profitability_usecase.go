// Package analytics contiene los informes de rentabilidad y de cuentas por cobrar.
// Todo es de solo lectura: nada aquí modifica facturas, gastos ni stock.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/billing"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/profit"
	"github.com/jhoicas/taller-api/internal/domain/repository"
	"github.com/jhoicas/taller-api/internal/domain/stock"
	"github.com/jhoicas/taller-api/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const periodWorkers = 4 // órdenes analizadas en paralelo en el informe de período

// ProfitabilityUseCase reconstruye el beneficio real por orden y por período.
type ProfitabilityUseCase struct {
	orderRepo      repository.OrderRepository
	invoiceRepo    repository.InvoiceRepository
	expenseRepo    repository.ExpenseRepository
	incomeRepo     repository.IncomeRepository
	consumableRepo repository.ConsumableRepository
	log            *logger.Logger
}

// NewProfitabilityUseCase construye el caso de uso.
func NewProfitabilityUseCase(
	orderRepo repository.OrderRepository,
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	incomeRepo repository.IncomeRepository,
	consumableRepo repository.ConsumableRepository,
	log *logger.Logger,
) *ProfitabilityUseCase {
	return &ProfitabilityUseCase{
		orderRepo:      orderRepo,
		invoiceRepo:    invoiceRepo,
		expenseRepo:    expenseRepo,
		incomeRepo:     incomeRepo,
		consumableRepo: consumableRepo,
		log:            log,
	}
}

// costBasis son los datos de coste compartidos por todas las órdenes de un informe.
type costBasis struct {
	types     []*entity.ConsumableType
	purchases []*entity.ConsumablePurchase
}

func (uc *ProfitabilityUseCase) loadCostBasis(ctx context.Context) (costBasis, error) {
	types, err := uc.consumableRepo.ListTypes(ctx)
	if err != nil {
		return costBasis{}, fmt.Errorf("list consumable types: %w", err)
	}
	purchases, err := uc.consumableRepo.ListPurchases(ctx, "")
	if err != nil {
		return costBasis{}, fmt.Errorf("list consumable purchases: %w", err)
	}
	return costBasis{types: types, purchases: purchases}, nil
}

func (uc *ProfitabilityUseCase) matchInvoice(ctx context.Context, inv *entity.Invoice, basis costBasis) (profit.Report, error) {
	lines, err := uc.invoiceRepo.GetLines(ctx, inv.ID)
	if err != nil {
		return profit.Report{}, fmt.Errorf("get invoice lines: %w", err)
	}
	expenses, err := uc.expenseRepo.ListByOrder(ctx, inv.OrderID, entity.ExpenseCategoryParts, entity.ExpenseCategoryExternalWork)
	if err != nil {
		return profit.Report{}, fmt.Errorf("list order expenses: %w", err)
	}
	return profit.Match(profit.Input{
		IssueDate:       inv.IssueDate,
		Lines:           lines,
		Expenses:        expenses,
		ConsumableTypes: basis.types,
		Purchases:       basis.purchases,
	}), nil
}

// OrderProfit devuelve el desglose de coste e ingreso de la factura de la orden y el saldo
// del cliente. NotFound si no existe la orden o no está facturada.
func (uc *ProfitabilityUseCase) OrderProfit(ctx context.Context, orderID string) (*dto.OrderProfitResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get repair order: %w", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	inv, err := uc.invoiceRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get invoice by order: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	basis, err := uc.loadCostBasis(ctx)
	if err != nil {
		return nil, err
	}
	report, err := uc.matchInvoice(ctx, inv, basis)
	if err != nil {
		return nil, err
	}
	payments, err := uc.incomeRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order payments: %w", err)
	}
	paid := billing.Paid(payments)

	resp := &dto.OrderProfitResponse{
		OrderID:       orderID,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.Number,
		IssueDate:     inv.IssueDate.Format(dto.DateLayout),
		Entries:       make([]dto.ProfitEntryDTO, 0, len(report.Entries)),
		TotalCost:     report.TotalCost.Round(2),
		TotalRevenue:  report.TotalRevenue.Round(2),
		TotalProfit:   report.TotalProfit.Round(2),
		InvoiceTotal:  inv.Total,
		Payments:      paid,
		ClientBalance: paid.Sub(inv.Total),
	}
	for _, e := range report.Entries {
		resp.Entries = append(resp.Entries, dto.ProfitEntryDTO{
			Kind:        e.Kind,
			Description: e.Description,
			Cost:        e.Cost.Round(2),
			Revenue:     e.Revenue.Round(2),
			Profit:      e.Profit.Round(2),
		})
	}
	return resp, nil
}

// PeriodProfit suma el beneficio de las órdenes facturadas en [from, to] (días completos)
// más los ingresos directos de grúa y otras ganancias, que no tienen coste.
// Las órdenes sin factura no aparecen; un coste desconocido cuenta como cero.
func (uc *ProfitabilityUseCase) PeriodProfit(ctx context.Context, from, to time.Time) (*dto.PeriodProfitResponse, error) {
	from, to = periodBounds(from, to)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period ends before it starts", domain.ErrInvalidInput)
	}

	invoices, err := uc.invoiceRepo.ListByIssueDate(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	basis, err := uc.loadCostBasis(ctx)
	if err != nil {
		return nil, err
	}

	// ── Un informe por factura, en paralelo y acotado ─────────────────────────
	reports := make([]profit.Report, len(invoices))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(periodWorkers)
	for i, inv := range invoices {
		i, inv := i, inv
		g.Go(func() error {
			r, err := uc.matchInvoice(gctx, inv, basis)
			if err != nil {
				return fmt.Errorf("order %s: %w", inv.OrderID, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.PeriodProfitResponse{
		From:       from.Format(dto.DateLayout),
		To:         to.Format(dto.DateLayout),
		Orders:     make([]dto.OrderProfitSummary, 0, len(invoices)),
		JobsProfit: decimal.Zero,
	}
	for i, inv := range invoices {
		r := reports[i]
		resp.Orders = append(resp.Orders, dto.OrderProfitSummary{
			OrderID:       inv.OrderID,
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.Number,
			IssueDate:     inv.IssueDate.Format(dto.DateLayout),
			TotalCost:     r.TotalCost.Round(2),
			TotalRevenue:  r.TotalRevenue.Round(2),
			TotalProfit:   r.TotalProfit.Round(2),
		})
		resp.JobsProfit = resp.JobsProfit.Add(r.TotalProfit)
	}
	resp.JobsProfit = resp.JobsProfit.Round(2)

	// ── Ingresos directos sin coste ───────────────────────────────────────────
	if resp.TowingIncome, err = uc.sumIncome(ctx, from, to, entity.IncomeCategoryTowing); err != nil {
		return nil, err
	}
	if resp.OtherEarnings, err = uc.sumIncome(ctx, from, to, entity.IncomeCategoryOtherEarnings); err != nil {
		return nil, err
	}
	resp.TotalProfit = resp.JobsProfit.Add(resp.TowingIncome).Add(resp.OtherEarnings)

	uc.log.Debug().Int("orders", len(invoices)).Str("total_profit", resp.TotalProfit.String()).Msg("informe de rentabilidad")
	return resp, nil
}

func (uc *ProfitabilityUseCase) sumIncome(ctx context.Context, from, to time.Time, category string) (decimal.Decimal, error) {
	incomes, err := uc.incomeRepo.ListByCategories(ctx, from, to, category)
	if err != nil {
		return decimal.Zero, fmt.Errorf("list %s incomes: %w", category, err)
	}
	return billing.Paid(incomes).Round(2), nil
}

// periodBounds amplía el rango a días completos: from a las 00:00 y to al último instante del día.
func periodBounds(from, to time.Time) (time.Time, time.Time) {
	return stock.Day(from), stock.Day(to).Add(24*time.Hour - time.Nanosecond)
}
