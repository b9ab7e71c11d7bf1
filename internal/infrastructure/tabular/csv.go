package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/Movimientos-api/internal/domain"
)

// readCSV lee el buffer como CSV UTF-8 separado por comas. El lector es
// tolerante con lo que producen las hojas exportadas a mano: número de
// columnas variable por fila (el desajuste lo reporta buildRows), comillas
// laxas y espacios iniciales.
func readCSV(data []byte) ([][]string, error) {
	// BOM de Excel al exportar "CSV UTF-8"
	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %v: %w", err, domain.ErrUnsupportedFormat)
	}
	return rows, nil
}
