package importer_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/application/importer"
	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/importing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo falso
// ──────────────────────────────────────────────────────────────────────────────

type fakeCatalog struct {
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
	vehicles   map[string]*entity.Vehicle
}

func (c *fakeCatalog) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return c.products[id], nil
}
func (c *fakeCatalog) Create(ctx context.Context, p *entity.Product) error { return nil }

func (c *fakeCatalog) CreateBatch(ctx context.Context, _ []*entity.Product) error { return nil }
func (c *fakeCatalog) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Product, error) {
	return nil, nil
}
func (c *fakeCatalog) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeWarehouses struct{ byID map[string]*entity.Warehouse }

func (w *fakeWarehouses) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return w.byID[id], nil
}
func (w *fakeWarehouses) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeVehicles struct{ byID map[string]*entity.Vehicle }

func (v *fakeVehicles) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	return v.byID[id], nil
}
func (v *fakeVehicles) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	return nil, nil
}

func movementImportFixture(serialized bool) (*importer.MovementImportUseCase, *recordingSink) {
	sink := &recordingSink{}
	sub := importer.NewBatchSubmitter(sink, fastRetry(), testLogger())

	products := &fakeCatalog{products: map[string]*entity.Product{
		"prod-1": {ID: "prod-1", CompanyID: "comp-1", Code: "P-001", Name: "Router", Serialized: serialized},
	}}
	warehouses := &fakeWarehouses{byID: map[string]*entity.Warehouse{
		"wh-a": {ID: "wh-a", CompanyID: "comp-1", Name: "Bodega Norte"},
		"wh-b": {ID: "wh-b", CompanyID: "comp-1", Name: "Bodega Sur"},
	}}
	vehicles := &fakeVehicles{byID: map[string]*entity.Vehicle{
		"veh-1": {ID: "veh-1", CompanyID: "comp-1", Plate: "ABC-123"},
	}}

	uc := importer.NewMovementImportUseCase(sub, products, warehouses, vehicles, importer.Limits{}, testLogger())
	return uc, sink
}

func shipmentRequest(binding map[string]string) dto.MovementImportRequest {
	return dto.MovementImportRequest{
		Type:                   entity.MovementTypeSHIPMENT,
		SourceWarehouseID:      "wh-a",
		DestinationWarehouseID: "wh-b",
		DriverName:             "Carlos Pérez",
		VehicleID:              "veh-1",
		ProductID:              "prod-1",
		Binding:                binding,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga serializada
// ──────────────────────────────────────────────────────────────────────────────

func TestImportMovement_SerializadoUnaUnidadPorSerie(t *testing.T) {
	uc, sink := movementImportFixture(true)
	csv := "Serie,Lote\nSN-001,L-10\nSN-002,L-10\nSN-003,L-10\n"

	req := shipmentRequest(map[string]string{
		importing.FieldSerialNumber: "Serie",
		importing.FieldBatchNumber:  "Lote",
	})
	movement, report, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, []byte(csv), nil)

	require.NoError(t, err)
	require.True(t, report.Submittable())
	require.NotNil(t, movement)

	require.Len(t, movement.Lines, 1)
	line := movement.Lines[0]
	assert.Equal(t, "prod-1", line.ProductID)
	assert.True(t, line.QuantitySent.Equal(decimal.NewFromInt(3)), "cantidad = series únicas")
	assert.Len(t, line.SerialNumbersSent, 3)
	assert.Equal(t, "L-10", line.BatchNumber)
	assert.Equal(t, entity.MovementStatusINTRANSIT, movement.CompleteStatus)
	assert.Len(t, sink.movements, 1, "el movimiento entra al sink como unidad")
}

// Serie repetida entre filas: el lote se rechaza con el issue apuntando a la
// fila original.
func TestImportMovement_SerieRepetidaEntreFilas(t *testing.T) {
	uc, sink := movementImportFixture(true)
	csv := "Serie\nSN-001\nSN-002\nSN-001\n"

	req := shipmentRequest(map[string]string{importing.FieldSerialNumber: "Serie"})
	movement, report, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, []byte(csv), nil)

	require.NoError(t, err)
	assert.Nil(t, movement)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, 4, report.Issues[0].Row, "la fila reportada es la línea de la hoja")
	assert.Contains(t, report.Issues[0].Message, "SN-001")
	assert.Contains(t, report.Issues[0].Message, "fila 2", "apunta a la primera aparición")
	assert.Empty(t, sink.movements)
}

// Producto serializado sin columna de serie enlazada: MappingError antes de
// validar filas.
func TestImportMovement_SerializadoExigeColumnaDeSerie(t *testing.T) {
	uc, _ := movementImportFixture(true)
	csv := "Lote\nL-10\n"

	req := shipmentRequest(map[string]string{importing.FieldBatchNumber: "Lote"})
	_, _, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, []byte(csv), nil)

	var mapErr *importing.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, []string{importing.FieldSerialNumber}, mapErr.Missing)
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga no serializada
// ──────────────────────────────────────────────────────────────────────────────

func TestImportMovement_NoSerializadoSumaCantidades(t *testing.T) {
	uc, _ := movementImportFixture(false)
	csv := "Cantidad\n5\n7.5\n"

	req := shipmentRequest(map[string]string{importing.FieldQuantity: "Cantidad"})
	movement, report, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, []byte(csv), nil)

	require.NoError(t, err)
	require.True(t, report.Submittable())
	assert.True(t, movement.Lines[0].QuantitySent.Equal(decimal.NewFromFloat(12.5)))
}

func TestImportMovement_SinColumnaCantidadCuentaFilas(t *testing.T) {
	uc, _ := movementImportFixture(false)
	csv := "Contenedor\nCNT-1\nCNT-1\nCNT-1\nCNT-1\n"

	req := shipmentRequest(map[string]string{importing.FieldContainerNumber: "Contenedor"})
	movement, report, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, []byte(csv), nil)

	require.NoError(t, err)
	require.True(t, report.Submittable())
	assert.True(t, movement.Lines[0].QuantitySent.Equal(decimal.NewFromInt(4)),
		"sin columna de cantidad, una unidad por fila")
	assert.Equal(t, "CNT-1", movement.Lines[0].ContainerNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de catálogo previa al archivo
// ──────────────────────────────────────────────────────────────────────────────

func TestImportMovement_RechazaCatalogoInvalido(t *testing.T) {
	uc, _ := movementImportFixture(false)
	csv := []byte("Cantidad\n1\n")

	t.Run("bodegas iguales", func(t *testing.T) {
		req := shipmentRequest(nil)
		req.DestinationWarehouseID = req.SourceWarehouseID
		_, _, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, csv, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("despacho sin conductor", func(t *testing.T) {
		req := shipmentRequest(nil)
		req.DriverName = ""
		_, _, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, csv, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("producto inexistente", func(t *testing.T) {
		req := shipmentRequest(nil)
		req.ProductID = "prod-fantasma"
		_, _, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, csv, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("producto de otra empresa", func(t *testing.T) {
		req := shipmentRequest(nil)
		_, _, err := uc.ImportMovement(context.Background(), "otra-empresa", "user-1", req, csv, nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("tipo desconocido", func(t *testing.T) {
		req := shipmentRequest(nil)
		req.Type = "PASEO"
		_, _, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, csv, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// Un traslado no exige conductor ni vehículo.
func TestImportMovement_TrasladoSinTransporte(t *testing.T) {
	uc, _ := movementImportFixture(false)
	csv := "Cantidad\n3\n"

	req := dto.MovementImportRequest{
		Type:                   entity.MovementTypeTRANSFER,
		SourceWarehouseID:      "wh-a",
		DestinationWarehouseID: "wh-b",
		ProductID:              "prod-1",
		Binding:                map[string]string{importing.FieldQuantity: "Cantidad"},
	}
	movement, report, err := uc.ImportMovement(context.Background(), "comp-1", "user-1", req, []byte(csv), nil)

	require.NoError(t, err)
	require.True(t, report.Submittable())
	assert.Empty(t, movement.DriverName)
	assert.Empty(t, movement.VehicleID)
}
