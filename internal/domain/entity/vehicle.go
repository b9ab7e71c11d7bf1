package entity

import "time"

// Vehicle representa un vehículo de la flota, asignable a despachos (Shipment).
type Vehicle struct {
	ID        string
	CompanyID string
	Plate     string // placa única por empresa
	Model     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
