package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Movimientos-api/internal/domain"
)

// readXLSX abre el libro y devuelve las filas de la hoja pedida (o la primera
// si sheet viene vacío). Las celdas llegan como texto formateado; la coerción
// de tipos ocurre después, en el dominio.
func readXLSX(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("abrir libro: %v: %w", err, domain.ErrUnsupportedFormat)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("libro sin hojas: %w", domain.ErrUnsupportedFormat)
	}

	name := sheets[0]
	if sheet != "" {
		name = ""
		for _, s := range sheets {
			if s == sheet {
				name = s
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("hoja %q: %w", sheet, domain.ErrSheetNotFound)
		}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", name, err)
	}
	return rows, nil
}
