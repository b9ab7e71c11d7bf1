package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento entre bodegas.
const (
	MovementTypeSHIPMENT = "SHIPMENT" // despacho con conductor y vehículo
	MovementTypeTRANSFER = "TRANSFER" // traslado interno entre bodegas
)

// Estados derivados de un movimiento. PENDING e IN_TRANSIT son estados de
// ciclo de vida; el resto los calcula la conciliación al registrar recepción.
const (
	MovementStatusPENDING        = "PENDING"
	MovementStatusINTRANSIT      = "IN_TRANSIT"
	MovementStatusPARTIAL        = "PARTIAL"
	MovementStatusCOMPLETE       = "COMPLETE"
	MovementStatusREVIEWREQUIRED = "REVIEW_REQUIRED" // series fuera del set enviado u otro hallazgo que exige revisión manual
)

// SerialNumber es el value object de un número de serie; ID se llena cuando
// la serie ya fue persistida.
type SerialNumber struct {
	ID    string
	Value string
}

// MovementLine es la entrada de un producto dentro de un movimiento.
// QuantityReceived es nil hasta que la bodega destino registra recepción.
type MovementLine struct {
	ID                    string
	MovementID            string
	ProductID             string
	QuantitySent          decimal.Decimal
	QuantityReceived      *decimal.Decimal
	SerialNumbersSent     []SerialNumber
	SerialNumbersReceived []SerialNumber
	BatchNumber           string
	ContainerNumber       string
	BillOfLadingNumber    string
}

// Movement representa un despacho (SHIPMENT) o traslado (TRANSFER) de stock
// entre dos bodegas distintas. Se persiste siempre como unidad: el movimiento
// y todas sus líneas en una sola transacción, nunca parcialmente.
type Movement struct {
	ID                     string
	CompanyID              string
	Type                   string // SHIPMENT | TRANSFER
	SourceWarehouseID      string
	DestinationWarehouseID string
	DriverName             string // solo SHIPMENT
	VehicleID              string // solo SHIPMENT
	Lines                  []*MovementLine
	CompleteStatus         string
	CreatedAt              time.Time
	UpdatedAt              time.Time
	CreatedBy              string // UserID
}
