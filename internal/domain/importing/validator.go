package importing

import "fmt"

// Issue es una violación de regla de negocio con contexto suficiente para que
// la UI la muestre: fila 1-based, campo canónico y mensaje.
// Un lote es enviable solo si su lista de issues queda vacía.
type Issue struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Policy parametriza la validación según el tipo de importación.
type Policy struct {
	// RequiredFields deben venir no vacíos en cada registro.
	RequiredFields []string
	// MaxRows limita el tamaño del lote (500 en este dominio).
	MaxRows int
	// UniqueCode exige código único entre las filas del lote.
	UniqueCode bool
	// RequireQuantity exige cantidad presente y válida en cada registro.
	RequireQuantity bool
}

// DefaultMaxRows es el límite de filas por importación.
const DefaultMaxRows = 500

// ProductImportPolicy valida importaciones del esquema fijo de productos.
func ProductImportPolicy() Policy {
	return Policy{
		RequiredFields: []string{FieldCode, FieldName, FieldBarcode},
		MaxRows:        DefaultMaxRows,
		UniqueCode:     true,
	}
}

// MovementLineImportPolicy valida cargas de líneas de despacho/traslado.
// El código aquí no es requerido: el producto lo selecciona el operario.
func MovementLineImportPolicy() Policy {
	return Policy{
		MaxRows:         DefaultMaxRows,
		RequireQuantity: false,
	}
}

// Validate aplica las reglas por registro y por lote. Es total: recorre todo
// y devuelve la lista COMPLETA de issues en vez de cortar en el primero, para
// que el operario corrija el archivo en una sola pasada. Los registros sin
// issues salen en valid con la cantidad ya coercionada.
func Validate(records []*CanonicalRecord, policy Policy) (valid []*CanonicalRecord, issues []Issue) {
	// Reglas de lote: tamaño
	if len(records) == 0 {
		issues = append(issues, Issue{Message: "el archivo no contiene filas de datos"})
		return nil, issues
	}
	if policy.MaxRows > 0 && len(records) > policy.MaxRows {
		issues = append(issues, Issue{
			Message: fmt.Sprintf("el archivo tiene %d filas; el máximo por importación es %d", len(records), policy.MaxRows),
		})
		return nil, issues
	}

	codeRows := make(map[string]int, len(records))
	for _, rec := range records {
		recIssues := validateRecord(rec, policy)

		// Duplicado de código entre filas del lote
		if policy.UniqueCode && rec.Code != "" {
			if first, ok := codeRows[rec.Code]; ok {
				recIssues = append(recIssues, Issue{
					Row:     rec.Row,
					Field:   FieldCode,
					Message: fmt.Sprintf("código %q duplicado (ya aparece en la fila %d)", rec.Code, first),
				})
			} else {
				codeRows[rec.Code] = rec.Row
			}
		}

		if len(recIssues) == 0 {
			valid = append(valid, rec)
		}
		issues = append(issues, recIssues...)
	}
	return valid, issues
}

func validateRecord(rec *CanonicalRecord, policy Policy) []Issue {
	var issues []Issue

	for _, field := range policy.RequiredFields {
		if fieldValue(rec, field) == "" {
			issues = append(issues, Issue{Row: rec.Row, Field: field, Message: "campo requerido vacío"})
		}
	}

	// Cantidad: sin clamp silencioso, negativo o no numérico es issue.
	if rec.quantityPresent {
		q, ok := rec.quantityCell.Quantity()
		if !ok {
			issues = append(issues, Issue{
				Row:     rec.Row,
				Field:   FieldQuantity,
				Message: fmt.Sprintf("cantidad inválida %q: debe ser un número no negativo", rec.quantityCell.String()),
			})
		} else {
			rec.Quantity = &q
		}
	} else if policy.RequireQuantity {
		issues = append(issues, Issue{Row: rec.Row, Field: FieldQuantity, Message: "campo requerido vacío"})
	}

	// Series duplicadas dentro del registro
	seen := make(map[string]bool, len(rec.SerialNumbers))
	for _, sn := range rec.SerialNumbers {
		if seen[sn] {
			issues = append(issues, Issue{
				Row:     rec.Row,
				Field:   FieldSerialNumber,
				Message: fmt.Sprintf("número de serie %q repetido en la misma fila", sn),
			})
			continue
		}
		seen[sn] = true
	}

	return issues
}

func fieldValue(rec *CanonicalRecord, field string) string {
	switch field {
	case FieldCode:
		return rec.Code
	case FieldName:
		return rec.Name
	case FieldBarcode:
		return rec.Barcode
	case FieldBatchNumber:
		return rec.BatchNumber
	case FieldContainerNumber:
		return rec.ContainerNumber
	case FieldBillOfLading:
		return rec.BillOfLadingNumber
	}
	return ""
}
