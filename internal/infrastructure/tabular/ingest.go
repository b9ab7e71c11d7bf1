// Package tabular decodifica archivos tabulares (CSV y libros XLSX) en la
// secuencia ordenada de filas crudas que consume el pipeline de importación.
// Transformación pura sobre el buffer: no persiste nada.
package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/importing"
)

// Hint orienta la ingesta: Sheet nombra la hoja del libro a usar (vacío = la
// primera). Para CSV se ignora.
type Hint struct {
	Filename string
	Sheet    string
}

// xlsxMagic: los .xlsx son contenedores ZIP.
var xlsxMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// Ingest decodifica el buffer como XLSX o CSV según su contenido y devuelve
// las filas crudas en orden de hoja, con los desajustes de número de columnas
// reportados como issues por fila en vez de abortar la ingesta completa.
// Falla con domain.ErrUnsupportedFormat si el contenido no decodifica como
// ninguno de los dos formatos, y con domain.ErrEmptyHeader si no hay fila de
// encabezados.
func Ingest(data []byte, hint Hint) ([]*importing.RawRow, []importing.Issue, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("buffer vacío: %w", domain.ErrUnsupportedFormat)
	}

	var grid [][]string
	var err error
	if bytes.HasPrefix(data, xlsxMagic) {
		grid, err = readXLSX(data, hint.Sheet)
	} else {
		grid, err = readCSV(data)
	}
	if err != nil {
		return nil, nil, err
	}

	return buildRows(grid)
}

// buildRows toma la grilla cruda, ubica el encabezado (primera fila no vacía)
// y convierte el resto en RawRows etiquetadas por encabezado.
func buildRows(grid [][]string) ([]*importing.RawRow, []importing.Issue, error) {
	headerIdx := -1
	for i, row := range grid {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, nil, domain.ErrEmptyHeader
	}

	headers := make([]string, len(grid[headerIdx]))
	for i, h := range grid[headerIdx] {
		label := strings.TrimSpace(h)
		if label == "" {
			// Encabezado vacío intermedio: etiqueta posicional para no
			// perder la columna ni colisionar etiquetas.
			label = fmt.Sprintf("columna_%d", i+1)
		}
		headers[i] = label
	}

	var rows []*importing.RawRow
	var issues []importing.Issue
	for i := headerIdx + 1; i < len(grid); i++ {
		cells := grid[i]
		if rowEmpty(cells) {
			continue
		}

		// Los issues se numeran con la línea de la hoja (1-based, encabezado
		// incluido): es la fila que el operario ve en su archivo.
		if len(cells) > len(headers) {
			issues = append(issues, importing.Issue{
				Row:     i + 1,
				Message: fmt.Sprintf("la fila tiene %d columnas y el encabezado %d", len(cells), len(headers)),
			})
			continue
		}

		raw := importing.NewRawRow(i + 1)
		for j, label := range headers {
			// XLSX recorta celdas vacías al final de la fila; se rellenan
			// como texto vacío.
			value := ""
			if j < len(cells) {
				value = cells[j]
			}
			raw.Set(label, importing.TextCell(value))
		}
		rows = append(rows, raw)
	}

	return rows, issues, nil
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
