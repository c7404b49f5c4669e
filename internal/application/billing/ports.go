package billing

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye órdenes, gastos,
// consumibles y facturas. Cualquier error devuelto por fn deshace todo.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		expenseRepo repository.ExpenseRepository,
		consumableRepo repository.ConsumableRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}
