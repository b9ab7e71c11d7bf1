package repository

import (
	"context"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

// VehicleRepository define el puerto de catálogo para Vehicle (DIP).
type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vehicle, error)
}
