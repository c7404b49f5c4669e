package repository

import (
	"context"
	"time"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// IncomeRepository define el puerto de persistencia para ingresos.
type IncomeRepository interface {
	Create(ctx context.Context, income *entity.Income) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Income, error)
	// ListByCategories devuelve los ingresos de las categorías dadas con fecha en [from, to].
	ListByCategories(ctx context.Context, from, to time.Time, categories ...string) ([]*entity.Income, error)
}
