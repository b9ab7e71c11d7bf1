package dto

import "github.com/jhoicas/Movimientos-api/internal/domain/importing"

// ImportReport resultado de una importación: cuántos registros entraron y la
// lista COMPLETA de issues cuando el lote no es enviable.
type ImportReport struct {
	Submitted int               `json:"submitted"`
	Issues    []importing.Issue `json:"issues,omitempty"`
}

// Submittable indica si el lote pasó validación (lista de issues vacía).
func (r ImportReport) Submittable() bool { return len(r.Issues) == 0 }

// MovementImportRequest parámetros de una carga de líneas de movimiento:
// el operario selecciona el producto y enlaza a mano las columnas libres
// (serie, lote, contenedor, BL) del archivo que subió.
type MovementImportRequest struct {
	Type                   string `json:"type"`
	SourceWarehouseID      string `json:"source_warehouse_id"`
	DestinationWarehouseID string `json:"destination_warehouse_id"`
	DriverName             string `json:"driver_name,omitempty"`
	VehicleID              string `json:"vehicle_id,omitempty"`
	ProductID              string `json:"product_id"`

	// Binding: campo canónico -> etiqueta de columna del archivo.
	Binding map[string]string `json:"binding"`

	// Sheet permite nombrar la hoja del libro; vacío usa la primera.
	Sheet string `json:"sheet,omitempty"`
}
