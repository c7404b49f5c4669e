package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.ConsumableRepository = (*ConsumableRepo)(nil)

// ConsumableRepo implementa repository.ConsumableRepository.
type ConsumableRepo struct{ repo }

func (r *ConsumableRepo) CreateType(ctx context.Context, t *entity.ConsumableType) error {
	return r.write(func(d *data) error {
		for _, existing := range d.types {
			if existing.ID == t.ID || existing.Name == t.Name {
				return fmt.Errorf("insert consumable type %q: %w", t.Name, domain.ErrConflict)
			}
		}
		c := *t
		d.types[t.ID] = &c
		return nil
	})
}

func (r *ConsumableRepo) GetType(ctx context.Context, id string) (*entity.ConsumableType, error) {
	var out *entity.ConsumableType
	err := r.read(func(d *data) error {
		if t, ok := d.types[id]; ok {
			c := *t
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *ConsumableRepo) ListTypes(ctx context.Context) ([]*entity.ConsumableType, error) {
	var out []*entity.ConsumableType
	err := r.read(func(d *data) error {
		for _, t := range d.types {
			c := *t
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *ConsumableRepo) CreatePurchase(ctx context.Context, p *entity.ConsumablePurchase) error {
	return r.write(func(d *data) error {
		c := *p
		d.purchases[p.ID] = &c
		return nil
	})
}

func (r *ConsumableRepo) ListPurchases(ctx context.Context, typeID string) ([]*entity.ConsumablePurchase, error) {
	var out []*entity.ConsumablePurchase
	err := r.read(func(d *data) error {
		for _, p := range d.purchases {
			if typeID == "" || p.TypeID == typeID {
				c := *p
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

func (r *ConsumableRepo) CreateUsage(ctx context.Context, u *entity.ConsumableUsage) error {
	return r.write(func(d *data) error {
		c := *u
		d.usages[u.ID] = &c
		return nil
	})
}

func (r *ConsumableRepo) ListUsages(ctx context.Context, typeID string) ([]*entity.ConsumableUsage, error) {
	return r.usagesWhere(func(u *entity.ConsumableUsage) bool { return typeID == "" || u.TypeID == typeID })
}

func (r *ConsumableRepo) ListUsagesByOrder(ctx context.Context, orderID string) ([]*entity.ConsumableUsage, error) {
	return r.usagesWhere(func(u *entity.ConsumableUsage) bool { return u.OrderID == orderID })
}

func (r *ConsumableRepo) usagesWhere(keep func(*entity.ConsumableUsage) bool) ([]*entity.ConsumableUsage, error) {
	var out []*entity.ConsumableUsage
	err := r.read(func(d *data) error {
		for _, u := range d.usages {
			if keep(u) {
				c := *u
				out = append(out, &c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		return chronological(out[i].Date, out[i].Date, out[i].ID, out[j].Date, out[j].Date, out[j].ID)
	})
	return out, err
}

func (r *ConsumableRepo) DeleteUsagesByOrder(ctx context.Context, orderID string) error {
	return r.write(func(d *data) error {
		for id, u := range d.usages {
			if u.OrderID == orderID {
				delete(d.usages, id)
			}
		}
		return nil
	})
}

func (r *ConsumableRepo) CreateAdjustment(ctx context.Context, a *entity.StockAdjustment) error {
	return r.write(func(d *data) error {
		c := *a
		d.adjustments[a.ID] = &c
		return nil
	})
}

func (r *ConsumableRepo) ListAdjustments(ctx context.Context, typeID string) ([]*entity.StockAdjustment, error) {
	var out []*entity.StockAdjustment
	err := r.read(func(d *data) error {
		for _, a := range d.adjustments {
			if typeID == "" || a.TypeID == typeID {
				c := *a
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
