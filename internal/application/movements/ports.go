package movements

import (
	"context"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

// ManifestData reúne todo lo que necesita el manifiesto de despacho.
type ManifestData struct {
	Movement    *entity.Movement
	Source      *entity.Warehouse
	Destination *entity.Warehouse
	Vehicle     *entity.Vehicle // nil en traslados
	// ProductNames resuelve ProductID -> nombre para la tabla de líneas.
	ProductNames map[string]string
}

// ManifestGenerator genera la representación imprimible de un movimiento.
type ManifestGenerator interface {
	GenerateManifest(ctx context.Context, data ManifestData) ([]byte, error)
}
