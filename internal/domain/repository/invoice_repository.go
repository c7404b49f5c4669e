package repository

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	// UpdateTotals congela subtotal, IVA y total.
	UpdateTotals(ctx context.Context, invoice *entity.Invoice) error
	// Delete borra la factura; las líneas caen en cascada.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error)
	GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)
	// ListByIssueDate devuelve las facturas emitidas en [from, to] ordenadas por fecha e ID.
	ListByIssueDate(ctx context.Context, from, to time.Time) ([]*entity.Invoice, error)

	// ReserveNextNumber reserva el siguiente número de factura con IVA.
	// Debe llamarse dentro de la transacción de generación: bloquea el contador
	// hasta el Commit, de modo que dos generaciones concurrentes nunca obtienen el mismo número.
	ReserveNextNumber(ctx context.Context) (int64, error)
}
