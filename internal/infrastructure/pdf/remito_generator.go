// Package pdf implementa la generación del remito de salida: el documento
// que acompaña al despacho y firma el transportista.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Centro de acopio  │  N° Salida + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TRANSPORTISTA: identificación                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Lote | Tipo | Clasif | Humedad | Kg                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL KG DESPACHADOS                                        │
//	│  FIRMA TRANSPORTISTA                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/application/salida"
	"github.com/mielsur/acopio-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 153, Green: 102, Blue: 0}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ salida.RemitoPDFGenerator = (*MarotoRemitoGenerator)(nil)

// MarotoRemitoGenerator implementa salida.RemitoPDFGenerator usando Maroto v2.
type MarotoRemitoGenerator struct {
	CentroNombre string
}

// NewMarotoRemitoGenerator construye el generador.
func NewMarotoRemitoGenerator(centroNombre string) *MarotoRemitoGenerator {
	return &MarotoRemitoGenerator{CentroNombre: centroNombre}
}

// GenerarRemitoPDF genera el remito y devuelve sus bytes.
func (g *MarotoRemitoGenerator) GenerarRemitoPDF(_ context.Context, s *entity.Salida, lotes []*entity.Lote) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remito de Salida", true).
		WithAuthor(g.CentroNombre, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.CentroNombre, s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(transportistaRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	total := decimal.Zero
	for _, l := range lotes {
		m.AddRows(loteRow(l))
		total = total.Add(l.CantidadKg)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(total))
	m.AddRows(line.NewRow(8))
	m.AddRows(firmaRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remito: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(centro string, s *entity.Salida) core.Row {
	fecha := s.CreatedAt.Format("02/01/2006")
	if s.FinalizadaAt != nil {
		fecha = s.FinalizadaAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(centro, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Centro de acopio de miel", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("REMITO DE SALIDA", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(s.ID, props.Text{Size: 8, Align: align.Right, Top: 7}),
			text.New("Fecha: "+fecha, props.Text{Size: 9, Align: align.Right, Top: 12}),
		),
	)
}

func transportistaRow(s *entity.Salida) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New("Transportista: "+s.TransportistaID, props.Text{Size: 9, Top: 1}),
		),
	)
}

func tableHeaderRow() core.Row {
	style := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}
	return row.New(7).Add(
		col.New(3).Add(text.New("Lote", style)),
		col.New(3).Add(text.New("Tipo de miel", style)),
		col.New(2).Add(text.New("Clasificación", style)),
		col.New(2).Add(text.New("Humedad %", alignRight(style))),
		col.New(2).Add(text.New("Kg", alignRight(style))),
	)
}

func loteRow(l *entity.Lote) core.Row {
	style := props.Text{Size: 8, Top: 1}
	return row.New(6).Add(
		col.New(3).Add(text.New(l.ID, style)),
		col.New(3).Add(text.New(l.TipoMielID, style)),
		col.New(2).Add(text.New(string(l.Clasificacion), style)),
		col.New(2).Add(text.New(l.HumedadPct.StringFixed(1), alignRight(style))),
		col.New(2).Add(text.New(l.CantidadKg.StringFixed(2), alignRight(style))),
	)
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(8).Add(
		col.New(10).Add(
			text.New("TOTAL DESPACHADO (KG)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1}),
		),
		col.New(2).Add(
			text.New(total.StringFixed(2), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Color: colorPrimary}),
		),
	)
}

func firmaRow() core.Row {
	return row.New(14).Add(
		col.New(5),
		col.New(7).Add(
			text.New("_______________________________", props.Text{Size: 9, Align: align.Right}),
			text.New("Firma y aclaración del transportista", props.Text{Size: 8, Align: align.Right, Top: 6, Color: colorGray}),
		),
	)
}

func alignRight(t props.Text) props.Text {
	t.Align = align.Right
	return t
}
