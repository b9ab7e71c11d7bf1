package movements

import (
	"context"

	"github.com/jhoicas/Movimientos-api/internal/domain"
)

// Manifest arma el manifiesto de despacho en PDF de un movimiento: documento
// que viaja con el conductor y contra el que la bodega destino registra la
// recepción.
func (uc *UseCase) Manifest(ctx context.Context, companyID, movementID string) ([]byte, error) {
	if uc.manifest == nil {
		return nil, domain.ErrInvalidInput
	}

	movement, _, err := uc.GetByID(ctx, companyID, movementID)
	if err != nil {
		return nil, err
	}

	source, err := uc.warehouseRepo.GetByID(ctx, movement.SourceWarehouseID)
	if err != nil {
		return nil, err
	}
	destination, err := uc.warehouseRepo.GetByID(ctx, movement.DestinationWarehouseID)
	if err != nil {
		return nil, err
	}
	if source == nil || destination == nil {
		return nil, domain.ErrNotFound
	}

	data := ManifestData{
		Movement:     movement,
		Source:       source,
		Destination:  destination,
		ProductNames: make(map[string]string, len(movement.Lines)),
	}
	if movement.VehicleID != "" {
		vehicle, err := uc.vehicleRepo.GetByID(ctx, movement.VehicleID)
		if err != nil {
			return nil, err
		}
		data.Vehicle = vehicle
	}
	for _, line := range movement.Lines {
		if _, ok := data.ProductNames[line.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil {
			data.ProductNames[line.ProductID] = product.Name
		}
	}

	return uc.manifest.GenerateManifest(ctx, data)
}
