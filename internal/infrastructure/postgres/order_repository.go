package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/internal/domain/entity"
	"github.com/jhoicas/taller-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.RepairOrder) error {
	query := `
		INSERT INTO repair_orders (id, client_id, vehicle_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, o.ID, nullIfEmpty(o.ClientID), nullIfEmpty(o.VehicleID), o.Status, o.CreatedAt)
	if err != nil {
		return wrapWrite("insert repair order", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.RepairOrder, error) {
	return r.get(ctx, `SELECT id, client_id, vehicle_id, status, created_at FROM repair_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.RepairOrder, error) {
	return r.get(ctx, `SELECT id, client_id, vehicle_id, status, created_at FROM repair_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.RepairOrder, error) {
	if !isID(id) {
		return nil, nil
	}
	var o entity.RepairOrder
	var clientID, vehicleID *string
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &clientID, &vehicleID, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get repair order: %w", err)
	}
	o.ClientID, o.VehicleID = deref(clientID), deref(vehicleID)
	return &o, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if !isID(id) {
		return fmt.Errorf("update repair order status %s: %w", id, domain.ErrNotFound)
	}
	tag, err := r.q.Exec(ctx, `UPDATE repair_orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update repair order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update repair order status %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
