package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes de reparación.
// El alta y la edición de órdenes pertenecen a otro módulo; aquí solo se lee y se cambia el estado.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.RepairOrder) error
	GetByID(ctx context.Context, id string) (*entity.RepairOrder, error)
	// GetForUpdate bloquea la fila de la orden hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.RepairOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
