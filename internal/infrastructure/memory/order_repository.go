package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementa repository.OrderRepository.
type OrderRepo struct{ repo }

func (r *OrderRepo) Create(ctx context.Context, o *entity.RepairOrder) error {
	return r.write(func(d *data) error {
		if _, ok := d.orders[o.ID]; ok {
			return fmt.Errorf("insert repair order %s: %w", o.ID, domain.ErrConflict)
		}
		c := *o
		d.orders[o.ID] = &c
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.RepairOrder, error) {
	var out *entity.RepairOrder
	err := r.read(func(d *data) error {
		if o, ok := d.orders[id]; ok {
			c := *o
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate: el bloqueo lo aporta la transacción (txMu).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.RepairOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.write(func(d *data) error {
		o, ok := d.orders[id]
		if !ok {
			return fmt.Errorf("update repair order status %s: %w", id, domain.ErrNotFound)
		}
		o.Status = status
		return nil
	})
}
