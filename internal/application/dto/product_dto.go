package dto

import "time"

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Barcode    string    `json:"barcode"`
	Serialized bool      `json:"serialized"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
