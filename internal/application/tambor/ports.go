package tambor

import (
	"context"

	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El commit de un borrador y la anulación de
// un tambor son todo-o-nada: o todos los lotes transicionan o ninguno.
type TxRunner interface {
	RunTambor(ctx context.Context, fn func(
		tamborRepo repository.TamborRepository,
		loteRepo repository.LoteRepository,
	) error) error
}
