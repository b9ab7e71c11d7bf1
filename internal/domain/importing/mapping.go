package importing

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Campos canónicos que entiende el sistema, independientes del nombre de
// columna que traiga la hoja.
const (
	FieldCode            = "code"
	FieldName            = "name"
	FieldBarcode         = "barcode"
	FieldSerialized      = "serialized"
	FieldQuantity        = "quantity"
	FieldSerialNumber    = "serial_number"
	FieldBatchNumber     = "batch_number"
	FieldContainerNumber = "container_number"
	FieldBillOfLading    = "bill_of_lading"
)

// FieldAliases define los encabezados aceptados para un campo canónico,
// en orden de preferencia. La comparación ignora mayúsculas y tildes.
type FieldAliases struct {
	Field    string
	Aliases  []string
	Required bool
}

// AliasTable es la tabla ordenada de alias de un tipo de importación.
type AliasTable []FieldAliases

// ProductAliasTable devuelve la tabla de alias del esquema fijo de productos.
// Los archivos llegan en español y en inglés según la sede que los exporta.
func ProductAliasTable() AliasTable {
	return AliasTable{
		{Field: FieldCode, Aliases: []string{"code", "codigo", "sku"}, Required: true},
		{Field: FieldName, Aliases: []string{"name", "nombre", "descripcion", "description"}, Required: true},
		{Field: FieldBarcode, Aliases: []string{"barcode", "codigo de barras", "ean"}, Required: true},
		{Field: FieldSerialized, Aliases: []string{"serialized", "serializado", "con serie"}},
	}
}

// MovementRoleFields son los roles de columna que el operario debe enlazar a
// mano en cargas de despachos y traslados (no hay inferencia automática para
// estos: el enlace explícito es obligatorio).
func MovementRoleFields() []string {
	return []string{FieldSerialNumber, FieldBatchNumber, FieldContainerNumber, FieldBillOfLading}
}

// ColumnMapping asocia cada campo canónico con exactamente una etiqueta de
// columna cruda. Una etiqueta no puede servir a dos campos.
type ColumnMapping map[string]string

// MappingError acumula todos los problemas de resolución de columnas para que
// el operario corrija el archivo en una sola pasada.
type MappingError struct {
	Missing   []string // campos requeridos sin columna
	Conflicts []string // etiquetas reclamadas por más de un campo
	Unknown   []string // etiquetas enlazadas que no existen en el encabezado
}

func (e *MappingError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("campos sin columna: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Conflicts) > 0 {
		parts = append(parts, fmt.Sprintf("columnas reclamadas dos veces: %s", strings.Join(e.Conflicts, ", ")))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("columnas inexistentes: %s", strings.Join(e.Unknown, ", ")))
	}
	return "mapeo de columnas: " + strings.Join(parts, "; ")
}

func (e *MappingError) empty() bool {
	return len(e.Missing) == 0 && len(e.Conflicts) == 0 && len(e.Unknown) == 0
}

var headerFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader normaliza un encabezado para comparación: recorta espacios,
// pasa a minúsculas y elimina tildes ("Código" == "codigo" == "CODIGO").
func NormalizeHeader(s string) string {
	folded, _, err := transform.String(headerFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

// ResolveMapping resuelve automáticamente el mapeo de un esquema fijo: para
// cada campo canónico gana el primer alias que aparezca en los encabezados.
// Determinístico: mismos encabezados, mismo mapeo. Devuelve *MappingError con
// la lista completa de campos requeridos sin resolver.
func ResolveMapping(headers []string, table AliasTable) (ColumnMapping, error) {
	normalized := make(map[string]string, len(headers)) // normalizado -> etiqueta original
	for _, h := range headers {
		key := NormalizeHeader(h)
		if _, ok := normalized[key]; !ok {
			normalized[key] = h
		}
	}

	mapping := make(ColumnMapping, len(table))
	claimed := make(map[string]bool, len(table))
	mapErr := &MappingError{}

	for _, fa := range table {
		for _, alias := range fa.Aliases {
			label, ok := normalized[NormalizeHeader(alias)]
			if ok && !claimed[label] {
				mapping[fa.Field] = label
				claimed[label] = true
				break
			}
		}
		if _, ok := mapping[fa.Field]; !ok && fa.Required {
			mapErr.Missing = append(mapErr.Missing, fa.Field)
		}
	}

	if !mapErr.empty() {
		return nil, mapErr
	}
	return mapping, nil
}

// ValidateBinding valida un mapeo suministrado explícitamente por el
// operario (roles de serie, lote, contenedor y BL en cargas de movimientos):
// todo campo requerido debe resolver a exactamente un encabezado existente y
// ningún encabezado puede servir a dos campos. Reporta todos los problemas.
func ValidateBinding(binding ColumnMapping, headers []string, required []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	mapErr := &MappingError{}
	for _, field := range required {
		if binding[field] == "" {
			mapErr.Missing = append(mapErr.Missing, field)
		}
	}
	seen := make(map[string]string, len(binding)) // etiqueta -> primer campo que la reclamó
	for _, field := range sortedFields(binding) {
		label := binding[field]
		if !present[label] {
			mapErr.Unknown = append(mapErr.Unknown, label)
			continue
		}
		if prev, ok := seen[label]; ok && prev != field {
			mapErr.Conflicts = append(mapErr.Conflicts, label)
			continue
		}
		seen[label] = field
	}

	if !mapErr.empty() {
		return mapErr
	}
	return nil
}

// sortedFields devuelve los campos del binding en orden estable para que los
// errores no cambien entre ejecuciones (los mapas de Go no ordenan).
func sortedFields(binding ColumnMapping) []string {
	fields := make([]string, 0, len(binding))
	for f := range binding {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
