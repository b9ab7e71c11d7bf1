package entity

import "time"

// Product representa un producto del catálogo (consulta de solo lectura
// durante importaciones y armado de movimientos).
// Serialized indica que cada unidad se identifica por número de serie y la
// conciliación se hace por pertenencia de serie, no solo por cantidades.
type Product struct {
	ID         string
	CompanyID  string
	Code       string // código único por empresa
	Name       string
	Barcode    string
	Serialized bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
