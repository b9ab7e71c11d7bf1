package importing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CanonicalRecord es una fila completamente tipada, resultado de aplicar un
// ColumnMapping y coerción de tipos a una RawRow. Inmutable una vez validada.
type CanonicalRecord struct {
	// Row es el índice 1-based de la fila de datos (1 = primera fila debajo
	// del encabezado), usado en los issues de validación.
	Row int

	Code       string
	Name       string
	Barcode    string
	Serialized bool

	// Quantity la fija el Validator tras la coerción numérica; nil si la
	// columna no venía mapeada o la celda estaba vacía.
	Quantity *decimal.Decimal

	// SerialNumbers conserva el orden de la celda; duplicados dentro del
	// registro los rechaza el Validator.
	SerialNumbers []string

	BatchNumber        string
	ContainerNumber    string
	BillOfLadingNumber string

	quantityCell    Cell
	quantityPresent bool
}

// FromRawRow construye el registro canónico de una fila aplicando el mapeo.
// La coerción booleana es permisiva (ver CoerceBool); la numérica queda
// pendiente para el Validator, que es quien reporta issues.
func FromRawRow(row int, raw *RawRow, mapping ColumnMapping) *CanonicalRecord {
	rec := &CanonicalRecord{Row: row}

	rec.Code = strings.TrimSpace(cellText(raw, mapping, FieldCode))
	rec.Name = strings.TrimSpace(cellText(raw, mapping, FieldName))
	rec.Barcode = strings.TrimSpace(cellText(raw, mapping, FieldBarcode))

	if label, ok := mapping[FieldSerialized]; ok {
		if c, ok := raw.Get(label); ok {
			rec.Serialized = CoerceBool(c)
		}
	}
	if label, ok := mapping[FieldQuantity]; ok {
		if c, ok := raw.Get(label); ok && !c.IsEmpty() {
			rec.quantityCell = c
			rec.quantityPresent = true
		}
	}
	if label, ok := mapping[FieldSerialNumber]; ok {
		if c, ok := raw.Get(label); ok {
			rec.SerialNumbers = splitSerials(c.String())
		}
	}
	rec.BatchNumber = strings.TrimSpace(cellText(raw, mapping, FieldBatchNumber))
	rec.ContainerNumber = strings.TrimSpace(cellText(raw, mapping, FieldContainerNumber))
	rec.BillOfLadingNumber = strings.TrimSpace(cellText(raw, mapping, FieldBillOfLading))

	return rec
}

func cellText(raw *RawRow, mapping ColumnMapping, field string) string {
	label, ok := mapping[field]
	if !ok {
		return ""
	}
	c, ok := raw.Get(label)
	if !ok {
		return ""
	}
	return c.String()
}

// splitSerials separa una celda de series en valores individuales. Las hojas
// reales traen una serie por fila o varias separadas por coma/punto y coma.
func splitSerials(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	}) {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
