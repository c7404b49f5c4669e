package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementa repository.InvoiceRepository.
type InvoiceRepo struct{ repo }

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.write(func(d *data) error {
		for _, existing := range d.invoices {
			if existing.OrderID == inv.OrderID {
				return fmt.Errorf("insert invoice: order %s already invoiced: %w", inv.OrderID, domain.ErrConflict)
			}
			if inv.Number != nil && existing.Number != nil && *existing.Number == *inv.Number {
				return fmt.Errorf("insert invoice: number %d taken: %w", *inv.Number, domain.ErrConflict)
			}
		}
		c := *inv
		d.invoices[inv.ID] = &c
		return nil
	})
}

func (r *InvoiceRepo) CreateLine(ctx context.Context, l *entity.InvoiceLine) error {
	return r.write(func(d *data) error {
		if _, ok := d.invoices[l.InvoiceID]; !ok {
			return fmt.Errorf("insert invoice line: invoice %s: %w", l.InvoiceID, domain.ErrNotFound)
		}
		c := *l
		d.lines[l.InvoiceID] = append(d.lines[l.InvoiceID], &c)
		return nil
	})
}

func (r *InvoiceRepo) UpdateTotals(ctx context.Context, inv *entity.Invoice) error {
	return r.write(func(d *data) error {
		stored, ok := d.invoices[inv.ID]
		if !ok {
			return fmt.Errorf("update invoice totals %s: %w", inv.ID, domain.ErrNotFound)
		}
		stored.Subtotal = inv.Subtotal
		stored.Tax = inv.Tax
		stored.Total = inv.Total
		stored.UpdatedAt = inv.UpdatedAt
		return nil
	})
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	return r.write(func(d *data) error {
		delete(d.invoices, id)
		delete(d.lines, id)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.find(func(inv *entity.Invoice) bool { return inv.ID == id })
}

func (r *InvoiceRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Invoice, error) {
	return r.find(func(inv *entity.Invoice) bool { return inv.OrderID == orderID })
}

func (r *InvoiceRepo) find(match func(*entity.Invoice) bool) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.read(func(d *data) error {
		for _, inv := range d.invoices {
			if match(inv) {
				c := *inv
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	var out []*entity.InvoiceLine
	err := r.read(func(d *data) error {
		for _, l := range d.lines[invoiceID] {
			c := *l
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, err
}

func (r *InvoiceRepo) ListByIssueDate(ctx context.Context, from, to time.Time) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.read(func(d *data) error {
		for _, inv := range d.invoices {
			if inv.IssueDate.Before(from) || inv.IssueDate.After(to) {
				continue
			}
			c := *inv
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.Before(out[j].IssueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// ReserveNextNumber = max(contador, mayor número existente) + 1. Solo es seguro dentro de
// RunBilling, que mantiene txMu hasta el commit.
func (r *InvoiceRepo) ReserveNextNumber(ctx context.Context) (int64, error) {
	var next int64
	err := r.write(func(d *data) error {
		last := d.lastInvoiceNumber
		for _, inv := range d.invoices {
			if inv.Number != nil && *inv.Number > last {
				last = *inv.Number
			}
		}
		next = last + 1
		d.lastInvoiceNumber = next
		return nil
	})
	return next, err
}
