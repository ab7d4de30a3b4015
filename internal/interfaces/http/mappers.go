package http

import (
	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/domain/consolidacion"
	"github.com/mielsur/acopio-api/internal/domain/entity"
)

func loteADTO(l *entity.Lote) dto.LoteDTO {
	return dto.LoteDTO{
		ID:             l.ID,
		EntradaID:      l.EntradaID,
		OrdenLlegada:   l.OrdenLlegada,
		TipoMielID:     l.TipoMielID,
		HumedadPct:     l.HumedadPct,
		Clasificacion:  string(l.Clasificacion),
		CantidadKg:     l.CantidadKg,
		PrecioUnitario: l.PrecioUnitario,
		Estado:         l.Estado,
		TamborID:       l.TamborID,
		SalidaID:       l.SalidaID,
	}
}

func lotesADTO(lotes []*entity.Lote) []dto.LoteDTO {
	out := make([]dto.LoteDTO, 0, len(lotes))
	for _, l := range lotes {
		out = append(out, loteADTO(l))
	}
	return out
}

func entradaADTO(e *entity.Entrada, lotes []*entity.Lote) dto.EntradaResponse {
	return dto.EntradaResponse{
		ID:          e.ID,
		ProveedorID: e.ProveedorID,
		Estado:      e.Estado,
		Fecha:       e.Fecha,
		Lotes:       lotesADTO(lotes),
	}
}

func borradorADTO(b *consolidacion.Borrador) dto.BorradorDTO {
	tipoMielID, clasif, banda := b.Referencia()
	return dto.BorradorDTO{
		ID:            b.ID,
		Estado:        b.Estado(),
		TipoMielID:    tipoMielID,
		Clasificacion: string(clasif),
		Banda:         string(banda),
		TotalKg:       b.TotalKg(),
		Advertencia:   b.Advertencia(),
		Lotes:         lotesADTO(b.Lotes()),
	}
}

func tamborADTO(t *entity.Tambor) dto.TamborDTO {
	return dto.TamborDTO{
		ID:            t.ID,
		TipoMielID:    t.TipoMielID,
		Clasificacion: string(t.Clasificacion),
		Banda:         string(t.Banda),
		CantidadKg:    t.CantidadKg,
		Estado:        t.Estado,
		Advertencia:   t.Advertencia(),
	}
}

func salidaADTO(s *entity.Salida) dto.SalidaDTO {
	out := dto.SalidaDTO{
		ID:              s.ID,
		TransportistaID: s.TransportistaID,
		Estado:          s.Estado,
		Lineas:          make([]dto.LineaSalidaDTO, 0, len(s.Lineas)),
		FinalizadaAt:    s.FinalizadaAt,
	}
	for _, l := range s.Lineas {
		out.Lineas = append(out.Lineas, dto.LineaSalidaDTO{
			ID:            l.ID,
			TipoMielID:    l.TipoMielID,
			Clasificacion: string(l.Clasificacion),
			SolicitadoKg:  l.SolicitadoKg,
		})
	}
	return out
}

func tipoMielADTO(t *entity.TipoMiel) dto.TipoMielDTO {
	return dto.TipoMielDTO{ID: t.ID, Codigo: t.Codigo, Nombre: t.Nombre}
}

func precioADTO(p *entity.PrecioMiel) dto.PrecioDTO {
	return dto.PrecioDTO{
		TipoMielID:    p.TipoMielID,
		Clasificacion: string(p.Clasificacion),
		PrecioKg:      p.PrecioKg,
	}
}
