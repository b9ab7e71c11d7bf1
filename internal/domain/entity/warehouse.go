package entity

import "time"

// Warehouse representa una bodega o sucursal entre las que se mueve stock.
type Warehouse struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
