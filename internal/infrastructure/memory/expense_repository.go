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

var (
	_ repository.ExpenseRepository = (*ExpenseRepo)(nil)
	_ repository.IncomeRepository  = (*IncomeRepo)(nil)
)

// ExpenseRepo implementa repository.ExpenseRepository.
type ExpenseRepo struct{ repo }

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	return r.write(func(d *data) error {
		if _, ok := d.expenses[e.ID]; ok {
			return fmt.Errorf("insert expense %s: %w", e.ID, domain.ErrConflict)
		}
		c := *e
		d.expenses[e.ID] = &c
		return nil
	})
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	var out *entity.Expense
	err := r.read(func(d *data) error {
		if e, ok := d.expenses[id]; ok {
			c := *e
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ExpenseRepo) ListByOrder(ctx context.Context, orderID string, categories ...string) ([]*entity.Expense, error) {
	var out []*entity.Expense
	err := r.read(func(d *data) error {
		for _, e := range d.expenses {
			if e.OrderID != orderID || !inCategories(e.Category, categories) {
				continue
			}
			c := *e
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return chronological(out[i].Date, out[i].CreatedAt, out[i].ID, out[j].Date, out[j].CreatedAt, out[j].ID)
	})
	return out, err
}

// IncomeRepo implementa repository.IncomeRepository.
type IncomeRepo struct{ repo }

func (r *IncomeRepo) Create(ctx context.Context, in *entity.Income) error {
	return r.write(func(d *data) error {
		if _, ok := d.incomes[in.ID]; ok {
			return fmt.Errorf("insert income %s: %w", in.ID, domain.ErrConflict)
		}
		c := *in
		d.incomes[in.ID] = &c
		return nil
	})
}

func (r *IncomeRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Income, error) {
	return r.list(func(in *entity.Income) bool { return in.OrderID == orderID })
}

func (r *IncomeRepo) ListByCategories(ctx context.Context, from, to time.Time, categories ...string) ([]*entity.Income, error) {
	return r.list(func(in *entity.Income) bool {
		return inCategories(in.Category, categories) && !in.Date.Before(from) && !in.Date.After(to)
	})
}

func (r *IncomeRepo) list(keep func(*entity.Income) bool) ([]*entity.Income, error) {
	var out []*entity.Income
	err := r.read(func(d *data) error {
		for _, in := range d.incomes {
			if keep(in) {
				c := *in
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return chronological(out[i].Date, out[i].CreatedAt, out[i].ID, out[j].Date, out[j].CreatedAt, out[j].ID)
	})
	return out, err
}

func inCategories(category string, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

// chronological ordena por fecha, alta e ID, igual que el ORDER BY de PostgreSQL.
func chronological(da, ca time.Time, ida string, db, cb time.Time, idb string) bool {
	if !da.Equal(db) {
		return da.Before(db)
	}
	if !ca.Equal(cb) {
		return ca.Before(cb)
	}
	return ida < idb
}
