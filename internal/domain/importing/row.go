package importing

// RawRow es una fila cruda de la hoja: etiqueta original de columna → celda,
// conservando el orden de inserción (= orden de la hoja). No se muta después
// de la ingesta.
type RawRow struct {
	// Line es el número de fila 1-based en la hoja original (incluye el
	// encabezado, así los issues apuntan a la fila que ve el operario).
	Line int

	labels []string
	cells  map[string]Cell
}

// NewRawRow construye una fila vacía para la línea indicada.
func NewRawRow(line int) *RawRow {
	return &RawRow{Line: line, cells: make(map[string]Cell)}
}

// Set registra la celda bajo la etiqueta original. Una etiqueta repetida
// conserva la primera celda (las hojas reales a veces duplican encabezados).
func (r *RawRow) Set(label string, c Cell) {
	if _, ok := r.cells[label]; ok {
		return
	}
	r.labels = append(r.labels, label)
	r.cells[label] = c
}

// Get devuelve la celda de la etiqueta, si existe.
func (r *RawRow) Get(label string) (Cell, bool) {
	c, ok := r.cells[label]
	return c, ok
}

// Labels devuelve las etiquetas en orden de hoja.
func (r *RawRow) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Len devuelve el número de columnas de la fila.
func (r *RawRow) Len() int { return len(r.labels) }
