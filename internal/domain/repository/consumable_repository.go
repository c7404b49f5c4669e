package repository

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/entity"
)

// ConsumableRepository define el puerto para tipos de consumible y sus tres flujos de eventos
// (compras, usos y ajustes). No existe saldo almacenado: el stock se recalcula siempre.
type ConsumableRepository interface {
	CreateType(ctx context.Context, t *entity.ConsumableType) error
	GetType(ctx context.Context, id string) (*entity.ConsumableType, error)
	ListTypes(ctx context.Context) ([]*entity.ConsumableType, error)

	CreatePurchase(ctx context.Context, p *entity.ConsumablePurchase) error
	// ListPurchases devuelve las compras del tipo; typeID vacío = todas.
	ListPurchases(ctx context.Context, typeID string) ([]*entity.ConsumablePurchase, error)

	CreateUsage(ctx context.Context, u *entity.ConsumableUsage) error
	ListUsages(ctx context.Context, typeID string) ([]*entity.ConsumableUsage, error)
	ListUsagesByOrder(ctx context.Context, orderID string) ([]*entity.ConsumableUsage, error)
	DeleteUsagesByOrder(ctx context.Context, orderID string) error

	CreateAdjustment(ctx context.Context, a *entity.StockAdjustment) error
	ListAdjustments(ctx context.Context, typeID string) ([]*entity.StockAdjustment, error)
}
