package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, order_id, issue_date, is_tax_invoice, number, subtotal, tax, total, notes, created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.OrderID, inv.IssueDate, inv.IsTaxInvoice, inv.Number,
		inv.Subtotal, inv.Tax, inv.Total, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("insert invoice", err)
	}
	return nil
}

func (r *InvoiceRepo) CreateLine(ctx context.Context, l *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, position, type, description, quantity, unit_price, expense_id, consumable_type_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.InvoiceID, l.Position, l.Type, l.Description, l.Quantity, l.UnitPrice,
		nullIfEmpty(l.ExpenseID), nullIfEmpty(l.ConsumableTypeID),
	)
	if err != nil {
		return wrapWrite("insert invoice line", err)
	}
	return nil
}

func (r *InvoiceRepo) UpdateTotals(ctx context.Context, inv *entity.Invoice) error {
	query := `UPDATE invoices SET subtotal = $2, tax = $3, total = $4, updated_at = $5 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, inv.Subtotal, inv.Tax, inv.Total, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update invoice totals %s: %w", inv.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if !isID(id) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

func (r *InvoiceRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE order_id = $1`, orderID)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query, arg string) (*entity.Invoice, error) {
	if !isID(arg) {
		return nil, nil
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	if !isID(invoiceID) {
		return nil, nil
	}
	query := `
		SELECT id, invoice_id, position, type, description, quantity, unit_price, expense_id, consumable_type_id
		FROM invoice_lines
		WHERE invoice_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	return collect(rows, func(row pgxScanner) (*entity.InvoiceLine, error) {
		var l entity.InvoiceLine
		var expenseID, typeID *string
		if err := row.Scan(&l.ID, &l.InvoiceID, &l.Position, &l.Type, &l.Description, &l.Quantity, &l.UnitPrice, &expenseID, &typeID); err != nil {
			return nil, err
		}
		l.ExpenseID, l.ConsumableTypeID = deref(expenseID), deref(typeID)
		return &l, nil
	})
}

func (r *InvoiceRepo) ListByIssueDate(ctx context.Context, from, to time.Time) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE issue_date BETWEEN $1::date AND $2::date
		ORDER BY issue_date, id`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list invoices by issue date: %w", err)
	}
	return collect(rows, scanInvoice)
}

// ReserveNextNumber avanza el contador sobre el mayor número ya emitido. El UPDATE
// bloquea la fila de invoice_sequences hasta el fin de la tx.
func (r *InvoiceRepo) ReserveNextNumber(ctx context.Context) (int64, error) {
	query := `
		UPDATE invoice_sequences
		SET last_value = GREATEST(last_value, (SELECT COALESCE(MAX(number), 0) FROM invoices)) + 1
		WHERE name = 'tax_invoice'
		RETURNING last_value`
	var next int64
	if err := r.q.QueryRow(ctx, query).Scan(&next); err != nil {
		return 0, fmt.Errorf("reserve invoice number: %w", err)
	}
	return next, nil
}

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.OrderID, &inv.IssueDate, &inv.IsTaxInvoice, &inv.Number,
		&inv.Subtotal, &inv.Tax, &inv.Total, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
