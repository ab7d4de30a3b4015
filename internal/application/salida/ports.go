package salida

import (
	"context"

	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. El finalize de una salida es todo-o-nada:
// la insuficiencia de una sola línea aborta todo sin tocar ningún lote.
type TxRunner interface {
	RunSalida(ctx context.Context, fn func(
		salidaRepo repository.SalidaRepository,
		loteRepo repository.LoteRepository,
	) error) error
}

// RemitoPDFGenerator genera el remito de salida: el documento que firma el
// transportista, con el detalle de lotes consumidos.
type RemitoPDFGenerator interface {
	GenerarRemitoPDF(ctx context.Context, salida *entity.Salida, lotes []*entity.Lote) ([]byte, error)
}
