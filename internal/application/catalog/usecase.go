// Package catalog expone lecturas del catálogo maestro (productos, bodegas y
// vehículos) siempre acotadas a la empresa del token.
package catalog

import (
	"context"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
)

// UseCase lecturas del catálogo.
type UseCase struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	vehicleRepo   repository.VehicleRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	vehicleRepo repository.VehicleRepository,
) *UseCase {
	return &UseCase{
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		vehicleRepo:   vehicleRepo,
	}
}

// GetProduct devuelve un producto de la empresa; nil si no existe.
func (uc *UseCase) GetProduct(ctx context.Context, companyID, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// ListProducts devuelve los productos de la empresa paginados.
func (uc *UseCase) ListProducts(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.ListByCompany(ctx, companyID, limit, offset)
}

// GetWarehouse devuelve una bodega de la empresa; nil si no existe.
func (uc *UseCase) GetWarehouse(ctx context.Context, companyID, id string) (*entity.Warehouse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	if warehouse.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return warehouse, nil
}

// ListWarehouses devuelve las bodegas de la empresa paginadas.
func (uc *UseCase) ListWarehouses(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.ListByCompany(ctx, companyID, limit, offset)
}

// ListVehicles devuelve los vehículos de la flota de la empresa.
func (uc *UseCase) ListVehicles(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	return uc.vehicleRepo.ListByCompany(ctx, companyID, limit, offset)
}
