package importing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CellKind discrimina la unión etiquetada de valores de celda. Las hojas de
// cálculo traen "cualquier cosa en una celda"; aquí el tipo queda explícito y
// la coerción ocurre solo en los puntos declarados (CoerceBool, Quantity).
type CellKind int

const (
	CellText CellKind = iota
	CellNumber
	CellBool
)

// Cell es el valor de una celda ya tipado.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
	Bool   bool
}

// TextCell construye una celda de texto.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// NumberCell construye una celda numérica.
func NumberCell(d decimal.Decimal) Cell { return Cell{Kind: CellNumber, Number: d} }

// BoolCell construye una celda booleana.
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// String devuelve la representación textual de la celda.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return c.Number.String()
	case CellBool:
		if c.Bool {
			return "true"
		}
		return "false"
	default:
		return c.Text
	}
}

// IsEmpty indica si la celda de texto está vacía (tras recortar espacios).
// Las celdas numéricas y booleanas nunca se consideran vacías.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellText && strings.TrimSpace(c.Text) == ""
}

// CoerceBool normaliza valores "boolean-like" a bool: "Yes"/"No",
// "TRUE"/"FALSE", "1"/"0", "si"/"no" y booleanos nativos. Un valor no
// reconocido es false SIN generar issue: regla de negocio deliberada, los
// archivos de los operarios traen de todo en la columna serializado.
func CoerceBool(c Cell) bool {
	switch c.Kind {
	case CellBool:
		return c.Bool
	case CellNumber:
		// Solo 1 es true; 0 y cualquier otro número quedan en false.
		return c.Number.Equal(decimal.NewFromInt(1))
	}
	switch strings.ToLower(strings.TrimSpace(c.Text)) {
	case "yes", "true", "1", "si", "sí":
		return true
	}
	return false
}

// Quantity interpreta la celda como cantidad no negativa.
// ok es false si el valor no es numérico o es negativo; el llamador decide
// el issue (no hay clamp silencioso).
func (c Cell) Quantity() (decimal.Decimal, bool) {
	switch c.Kind {
	case CellNumber:
		if c.Number.IsNegative() {
			return decimal.Zero, false
		}
		return c.Number, true
	case CellBool:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(c.Text))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
