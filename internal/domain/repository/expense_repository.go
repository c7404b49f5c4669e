package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para gastos.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	// ListByOrder devuelve los gastos de la orden ordenados por fecha, alta e ID.
	// Sin categorías devuelve todos.
	ListByOrder(ctx context.Context, orderID string, categories ...string) ([]*entity.Expense, error)
}
