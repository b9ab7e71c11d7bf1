package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLineRequest una línea de despacho o traslado.
type MovementLineRequest struct {
	ProductID          string          `json:"product_id" validate:"required"`
	QuantitySent       decimal.Decimal `json:"quantity_sent"`
	SerialNumbers      []string        `json:"serial_numbers,omitempty"`
	BatchNumber        string          `json:"batch_number,omitempty"`
	ContainerNumber    string          `json:"container_number,omitempty"`
	BillOfLadingNumber string          `json:"bill_of_lading_number,omitempty"`
}

// CreateMovementRequest body para POST /api/movements.
// DriverName y VehicleID solo aplican (y son requeridos) para type=SHIPMENT.
type CreateMovementRequest struct {
	Type                   string                `json:"type" validate:"required,oneof=SHIPMENT TRANSFER"`
	SourceWarehouseID      string                `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID string                `json:"destination_warehouse_id" validate:"required"`
	DriverName             string                `json:"driver_name,omitempty"`
	VehicleID              string                `json:"vehicle_id,omitempty"`
	Lines                  []MovementLineRequest `json:"lines" validate:"min=1"`
}

// ReceiptLineRequest lo recibido para una línea en la bodega destino.
type ReceiptLineRequest struct {
	LineID           string           `json:"line_id" validate:"required"`
	QuantityReceived *decimal.Decimal `json:"quantity_received,omitempty"`
	SerialNumbers    []string         `json:"serial_numbers,omitempty"`
}

// ReceiveMovementRequest body para POST /api/movements/:id/receipt.
type ReceiveMovementRequest struct {
	Lines []ReceiptLineRequest `json:"lines" validate:"min=1"`
}

// MovementLineResponse salida de una línea con su estado de conciliación.
type MovementLineResponse struct {
	ID                    string           `json:"id"`
	ProductID             string           `json:"product_id"`
	QuantitySent          decimal.Decimal  `json:"quantity_sent"`
	QuantityReceived      *decimal.Decimal `json:"quantity_received,omitempty"`
	SerialNumbersSent     []string         `json:"serial_numbers_sent,omitempty"`
	SerialNumbersReceived []string         `json:"serial_numbers_received,omitempty"`
	BatchNumber           string           `json:"batch_number,omitempty"`
	ContainerNumber       string           `json:"container_number,omitempty"`
	BillOfLadingNumber    string           `json:"bill_of_lading_number,omitempty"`
	Status                string           `json:"status"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                     string                 `json:"id"`
	Type                   string                 `json:"type"`
	SourceWarehouseID      string                 `json:"source_warehouse_id"`
	DestinationWarehouseID string                 `json:"destination_warehouse_id"`
	DriverName             string                 `json:"driver_name,omitempty"`
	VehicleID              string                 `json:"vehicle_id,omitempty"`
	CompleteStatus         string                 `json:"complete_status"`
	Lines                  []MovementLineResponse `json:"lines"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

// MovementSummaryResponse cabecera de movimiento para listados (sin líneas).
type MovementSummaryResponse struct {
	ID                     string    `json:"id"`
	Type                   string    `json:"type"`
	SourceWarehouseID      string    `json:"source_warehouse_id"`
	DestinationWarehouseID string    `json:"destination_warehouse_id"`
	DriverName             string    `json:"driver_name,omitempty"`
	VehicleID              string    `json:"vehicle_id,omitempty"`
	CompleteStatus         string    `json:"complete_status"`
	LineCount              int       `json:"line_count"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementSummaryResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}
