// Package pdf implementa la generación del manifiesto de despacho: el
// documento impreso que acompaña al vehículo y contra el que la bodega
// destino verifica lo recibido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: MANIFIESTO DE DESPACHO │ N° Movimiento + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RUTA: Bodega origen → Bodega destino                        │
//	│  TRANSPORTE: Conductor + Vehículo (placa)                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Cant | Lote | Contenedor | BL             │
//	│  SERIES: números de serie por línea                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: despachado por / recibido por                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

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

	"github.com/jhoicas/Movimientos-api/internal/application/movements"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoManifestGenerator implementa movements.ManifestGenerator usando Maroto v2.
type MarotoManifestGenerator struct{}

// NewMarotoManifestGenerator construye el generador.
func NewMarotoManifestGenerator() *MarotoManifestGenerator { return &MarotoManifestGenerator{} }

// GenerateManifest genera el PDF del manifiesto y devuelve sus bytes.
func (g *MarotoManifestGenerator) GenerateManifest(_ context.Context, data movements.ManifestData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Manifiesto de Despacho", true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(data.Movement))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(data.Source, data.Destination))
	m.AddRows(transportRow(data.Movement, data.Vehicle))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de líneas
	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(data.Movement.Lines, data.ProductNames) {
		m.AddRows(r)
	}

	// Firmas
	m.AddRows(line.NewRow(6))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar manifiesto: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y N° de movimiento + fecha (der).
func headerRow(movement *entity.Movement) core.Row {
	titulo := "MANIFIESTO DE DESPACHO"
	if movement.Type == entity.MovementTypeTRANSFER {
		titulo = "MANIFIESTO DE TRASLADO"
	}
	fecha := movement.CreatedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento de control de salida de mercancía", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("MOVIMIENTO N°", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(movement.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// routeRow: bodega origen y destino lado a lado.
func routeRow(source, destination *entity.Warehouse) core.Row {
	warehouse := func(titulo string, w *entity.Warehouse) core.Col {
		return col.New(6).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(w.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(nonEmpty(w.Address, "—"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		)
	}
	return row.New(18).Add(
		warehouse("BODEGA ORIGEN", source),
		warehouse("BODEGA DESTINO", destination),
	)
}

// transportRow: conductor y vehículo; en traslados sin transporte asignado
// muestra guiones.
func transportRow(movement *entity.Movement, vehicle *entity.Vehicle) core.Row {
	placa, modelo := "—", "—"
	if vehicle != nil {
		placa = vehicle.Plate
		modelo = nonEmpty(vehicle.Model, "—")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("TRANSPORTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Conductor: %s   |   Placa: %s   |   Vehículo: %s",
				nonEmpty(movement.DriverName, "—"), placa, modelo,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas despachadas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 5, align.Left),
		h("Cant.", 1, align.Center),
		h("Lote", 2, align.Center),
		h("Contenedor", 2, align.Center),
		h("BL", 2, align.Center),
	)
}

// tableLineRows: una fila por línea del movimiento, más la fila de números
// de serie cuando la línea los tiene.
func tableLineRows(lines []*entity.MovementLine, productNames map[string]string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := productNames[l.ProductID]
		if name == "" {
			name = l.ProductID
		}
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				l.QuantitySent.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(l.BatchNumber, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(l.ContainerNumber, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(l.BillOfLadingNumber, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))

		if len(l.SerialNumbersSent) > 0 {
			serials := make([]string, 0, len(l.SerialNumbersSent))
			for _, sn := range l.SerialNumbersSent {
				serials = append(serials, sn.Value)
			}
			for _, chunk := range splitEvery(strings.Join(serials, ", "), 110) {
				result = append(result, row.New(4).Add(
					col.New(12).Add(text.New(
						"Series: "+chunk,
						props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 4},
					)),
				))
			}
		}
	}
	return result
}

// signatureRow: espacios de firma para despacho y recepción.
func signatureRow() core.Row {
	firma := func(label string) core.Col {
		return col.New(6).Add(
			text.New("_________________________", props.Text{
				Size: 9, Align: align.Center, Top: 12, Color: colorGray,
			}),
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 18,
			}),
		)
	}
	return row.New(24).Add(
		firma("DESPACHADO POR"),
		firma("RECIBIDO POR"),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID devuelve el primer bloque de un UUID, suficiente como folio visible.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return strings.ToUpper(id)
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
