package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.ConsumableRepository = (*ConsumableRepo)(nil)

// ConsumableRepo implementación de ConsumableRepository (usable con pool o tx).
// typeID vacío en los List* significa "todos los tipos".
type ConsumableRepo struct {
	q Querier
}

// NewConsumableRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumableRepository(q Querier) *ConsumableRepo {
	return &ConsumableRepo{q: q}
}

func (r *ConsumableRepo) CreateType(ctx context.Context, t *entity.ConsumableType) error {
	_, err := r.q.Exec(ctx, `INSERT INTO consumable_types (id, name, unit, min_stock) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Name, t.Unit, t.MinStock)
	if err != nil {
		return wrapWrite("insert consumable type", err)
	}
	return nil
}

func (r *ConsumableRepo) GetType(ctx context.Context, id string) (*entity.ConsumableType, error) {
	if !isID(id) {
		return nil, nil
	}
	t, err := scanType(r.q.QueryRow(ctx, `SELECT id, name, unit, min_stock FROM consumable_types WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consumable type: %w", err)
	}
	return t, nil
}

func (r *ConsumableRepo) ListTypes(ctx context.Context) ([]*entity.ConsumableType, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, unit, min_stock FROM consumable_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list consumable types: %w", err)
	}
	return collect(rows, scanType)
}

func scanType(row pgxScanner) (*entity.ConsumableType, error) {
	var t entity.ConsumableType
	if err := row.Scan(&t.ID, &t.Name, &t.Unit, &t.MinStock); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ConsumableRepo) CreatePurchase(ctx context.Context, p *entity.ConsumablePurchase) error {
	query := `
		INSERT INTO consumable_purchases (id, type_id, date, quantity, total_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, p.ID, p.TypeID, p.Date, p.Quantity, p.TotalCost, p.CreatedAt); err != nil {
		return wrapWrite("insert consumable purchase", err)
	}
	return nil
}

func (r *ConsumableRepo) ListPurchases(ctx context.Context, typeID string) ([]*entity.ConsumablePurchase, error) {
	query := `
		SELECT id, type_id, date, quantity, total_cost, created_at
		FROM consumable_purchases
		WHERE ($1 = '' OR type_id::text = $1)
		ORDER BY date, created_at, id`
	rows, err := r.q.Query(ctx, query, typeID)
	if err != nil {
		return nil, fmt.Errorf("list consumable purchases: %w", err)
	}
	return collect(rows, func(row pgxScanner) (*entity.ConsumablePurchase, error) {
		var p entity.ConsumablePurchase
		if err := row.Scan(&p.ID, &p.TypeID, &p.Date, &p.Quantity, &p.TotalCost, &p.CreatedAt); err != nil {
			return nil, err
		}
		return &p, nil
	})
}

func (r *ConsumableRepo) CreateUsage(ctx context.Context, u *entity.ConsumableUsage) error {
	query := `INSERT INTO consumable_usages (id, order_id, type_id, quantity, date) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, u.ID, u.OrderID, u.TypeID, u.Quantity, u.Date); err != nil {
		return wrapWrite("insert consumable usage", err)
	}
	return nil
}

func (r *ConsumableRepo) ListUsages(ctx context.Context, typeID string) ([]*entity.ConsumableUsage, error) {
	return r.listUsages(ctx, `WHERE ($1 = '' OR type_id::text = $1)`, typeID)
}

func (r *ConsumableRepo) ListUsagesByOrder(ctx context.Context, orderID string) ([]*entity.ConsumableUsage, error) {
	if !isID(orderID) {
		return nil, nil
	}
	return r.listUsages(ctx, `WHERE order_id = $1`, orderID)
}

func (r *ConsumableRepo) listUsages(ctx context.Context, where, arg string) ([]*entity.ConsumableUsage, error) {
	rows, err := r.q.Query(ctx, `SELECT id, order_id, type_id, quantity, date FROM consumable_usages `+where+` ORDER BY date, id`, arg)
	if err != nil {
		return nil, fmt.Errorf("list consumable usages: %w", err)
	}
	return collect(rows, func(row pgxScanner) (*entity.ConsumableUsage, error) {
		var u entity.ConsumableUsage
		if err := row.Scan(&u.ID, &u.OrderID, &u.TypeID, &u.Quantity, &u.Date); err != nil {
			return nil, err
		}
		return &u, nil
	})
}

func (r *ConsumableRepo) DeleteUsagesByOrder(ctx context.Context, orderID string) error {
	if !isID(orderID) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM consumable_usages WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete consumable usages: %w", err)
	}
	return nil
}

func (r *ConsumableRepo) CreateAdjustment(ctx context.Context, a *entity.StockAdjustment) error {
	query := `
		INSERT INTO stock_adjustments (id, type_id, quantity, reason, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, a.ID, a.TypeID, a.Quantity, a.Reason, a.Date, a.CreatedAt); err != nil {
		return wrapWrite("insert stock adjustment", err)
	}
	return nil
}

func (r *ConsumableRepo) ListAdjustments(ctx context.Context, typeID string) ([]*entity.StockAdjustment, error) {
	query := `
		SELECT id, type_id, quantity, reason, date, created_at
		FROM stock_adjustments
		WHERE ($1 = '' OR type_id::text = $1)
		ORDER BY date, created_at, id`
	rows, err := r.q.Query(ctx, query, typeID)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	return collect(rows, func(row pgxScanner) (*entity.StockAdjustment, error) {
		var a entity.StockAdjustment
		if err := row.Scan(&a.ID, &a.TypeID, &a.Quantity, &a.Reason, &a.Date, &a.CreatedAt); err != nil {
			return nil, err
		}
		return &a, nil
	})
}
