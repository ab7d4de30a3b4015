package entrada

import (
	"context"

	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Toda mutación de entrada+lotes es atómica:
// el registro de una recepción y la anulación en cascada son todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		entradaRepo repository.EntradaRepository,
		loteRepo repository.LoteRepository,
	) error) error
}
