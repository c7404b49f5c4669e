package inventory

import (
	"context"

	"github.com/jhoicas/taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio
// de consumibles atado a esa tx. Garantiza que el alta de un evento y la lectura
// del stock resultante ven el mismo estado.
type TxRunner interface {
	Run(ctx context.Context, fn func(consumableRepo repository.ConsumableRepository) error) error
}
