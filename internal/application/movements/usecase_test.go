package movements_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/application/movements"
	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/reconciliation"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositorio
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovements struct {
	byID    map[string]*entity.Movement
	created []*entity.Movement
	updated []*entity.Movement
}

func (r *fakeMovements) Create(ctx context.Context, m *entity.Movement) error {
	r.created = append(r.created, m)
	if r.byID == nil {
		r.byID = make(map[string]*entity.Movement)
	}
	r.byID[m.ID] = m
	return nil
}

func (r *fakeMovements) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.byID[id], nil
}

func (r *fakeMovements) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.byID {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovements) UpdateReceipt(ctx context.Context, m *entity.Movement) error {
	r.updated = append(r.updated, m)
	return nil
}

type fakeProducts struct{ byID map[string]*entity.Product }

func (r *fakeProducts) Create(ctx context.Context, p *entity.Product) error { return nil }

func (r *fakeProducts) CreateBatch(ctx context.Context, _ []*entity.Product) error { return nil }
func (r *fakeProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.byID[id], nil
}
func (r *fakeProducts) GetByCompanyAndCode(ctx context.Context, companyID, code string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProducts) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeWarehouses struct{ byID map[string]*entity.Warehouse }

func (r *fakeWarehouses) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.byID[id], nil
}
func (r *fakeWarehouses) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	return nil, nil
}

type fakeVehicles struct{ byID map[string]*entity.Vehicle }

func (r *fakeVehicles) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	return r.byID[id], nil
}
func (r *fakeVehicles) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

func fixture() (*movements.UseCase, *fakeMovements) {
	repo := &fakeMovements{byID: make(map[string]*entity.Movement)}
	products := &fakeProducts{byID: map[string]*entity.Product{
		"prod-simple": {ID: "prod-simple", CompanyID: "comp-1", Code: "P-001", Name: "Cable UTP"},
		"prod-serial": {ID: "prod-serial", CompanyID: "comp-1", Code: "P-002", Name: "Router", Serialized: true},
	}}
	warehouses := &fakeWarehouses{byID: map[string]*entity.Warehouse{
		"wh-a": {ID: "wh-a", CompanyID: "comp-1", Name: "Bodega Norte"},
		"wh-b": {ID: "wh-b", CompanyID: "comp-1", Name: "Bodega Sur"},
	}}
	vehicles := &fakeVehicles{byID: map[string]*entity.Vehicle{
		"veh-1": {ID: "veh-1", CompanyID: "comp-1", Plate: "ABC-123"},
	}}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return movements.NewUseCase(repo, products, warehouses, vehicles, nil, log), repo
}

func createShipment(t *testing.T, uc *movements.UseCase, lines ...dto.MovementLineRequest) *entity.Movement {
	t.Helper()
	m, err := uc.Create(context.Background(), "comp-1", "user-1", dto.CreateMovementRequest{
		Type:                   entity.MovementTypeSHIPMENT,
		SourceWarehouseID:      "wh-a",
		DestinationWarehouseID: "wh-b",
		DriverName:             "Carlos Pérez",
		VehicleID:              "veh-1",
		Lines:                  lines,
	})
	require.NoError(t, err)
	return m
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DespachoValido(t *testing.T) {
	uc, repo := fixture()

	m := createShipment(t, uc,
		dto.MovementLineRequest{ProductID: "prod-simple", QuantitySent: qty(10)},
		dto.MovementLineRequest{ProductID: "prod-serial", SerialNumbers: []string{"SN-1", "SN-2"}},
	)

	assert.Equal(t, entity.MovementStatusINTRANSIT, m.CompleteStatus)
	require.Len(t, m.Lines, 2)
	assert.True(t, m.Lines[1].QuantitySent.Equal(qty(2)),
		"en producto serializado la cantidad es el número de series")
	require.Len(t, repo.created, 1, "el movimiento se persiste como unidad")
}

func TestCreate_ValidacionesDeCabecera(t *testing.T) {
	uc, _ := fixture()
	base := dto.CreateMovementRequest{
		Type:                   entity.MovementTypeSHIPMENT,
		SourceWarehouseID:      "wh-a",
		DestinationWarehouseID: "wh-b",
		DriverName:             "Carlos",
		VehicleID:              "veh-1",
		Lines:                  []dto.MovementLineRequest{{ProductID: "prod-simple", QuantitySent: qty(1)}},
	}

	t.Run("bodegas deben diferir", func(t *testing.T) {
		in := base
		in.DestinationWarehouseID = in.SourceWarehouseID
		_, err := uc.Create(context.Background(), "comp-1", "user-1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("despacho exige conductor y vehículo", func(t *testing.T) {
		in := base
		in.DriverName = ""
		_, err := uc.Create(context.Background(), "comp-1", "user-1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("sin líneas", func(t *testing.T) {
		in := base
		in.Lines = nil
		_, err := uc.Create(context.Background(), "comp-1", "user-1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("bodega de otra empresa", func(t *testing.T) {
		_, err := uc.Create(context.Background(), "otra-empresa", "user-1", base)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCreate_ValidacionesDeLinea(t *testing.T) {
	uc, _ := fixture()

	t.Run("serializado sin series", func(t *testing.T) {
		_, err := uc.Create(context.Background(), "comp-1", "user-1", dto.CreateMovementRequest{
			Type: entity.MovementTypeTRANSFER, SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-b",
			Lines: []dto.MovementLineRequest{{ProductID: "prod-serial", QuantitySent: qty(2)}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("series duplicadas", func(t *testing.T) {
		_, err := uc.Create(context.Background(), "comp-1", "user-1", dto.CreateMovementRequest{
			Type: entity.MovementTypeTRANSFER, SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-b",
			Lines: []dto.MovementLineRequest{{ProductID: "prod-serial", SerialNumbers: []string{"SN-1", "SN-1"}}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cantidad no positiva en no serializado", func(t *testing.T) {
		_, err := uc.Create(context.Background(), "comp-1", "user-1", dto.CreateMovementRequest{
			Type: entity.MovementTypeTRANSFER, SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-b",
			Lines: []dto.MovementLineRequest{{ProductID: "prod-simple", QuantitySent: qty(0)}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_RecepcionCompleta(t *testing.T) {
	uc, repo := fixture()
	m := createShipment(t, uc,
		dto.MovementLineRequest{ProductID: "prod-simple", QuantitySent: qty(10)},
		dto.MovementLineRequest{ProductID: "prod-serial", SerialNumbers: []string{"SN-1", "SN-2"}},
	)

	received := qty(10)
	updated, statuses, anomalies, err := uc.Receive(context.Background(), "comp-1", m.ID, dto.ReceiveMovementRequest{
		Lines: []dto.ReceiptLineRequest{
			{LineID: m.Lines[0].ID, QuantityReceived: &received},
			{LineID: m.Lines[1].ID, SerialNumbers: []string{"SN-1", "SN-2"}},
		},
	})

	require.NoError(t, err)
	assert.Empty(t, anomalies)
	assert.Equal(t, entity.MovementStatusCOMPLETE, updated.CompleteStatus)
	assert.Equal(t, reconciliation.LineFull, statuses[m.Lines[0].ID])
	assert.Equal(t, reconciliation.LineFull, statuses[m.Lines[1].ID])
	require.Len(t, repo.updated, 1)
}

func TestReceive_ParcialYSinRecibir(t *testing.T) {
	uc, _ := fixture()
	m := createShipment(t, uc,
		dto.MovementLineRequest{ProductID: "prod-simple", QuantitySent: qty(10)},
		dto.MovementLineRequest{ProductID: "prod-serial", SerialNumbers: []string{"SN-1", "SN-2"}},
	)

	received := qty(6)
	updated, statuses, anomalies, err := uc.Receive(context.Background(), "comp-1", m.ID, dto.ReceiveMovementRequest{
		Lines: []dto.ReceiptLineRequest{{LineID: m.Lines[0].ID, QuantityReceived: &received}},
	})

	require.NoError(t, err)
	assert.Empty(t, anomalies)
	assert.Equal(t, entity.MovementStatusPARTIAL, updated.CompleteStatus)
	assert.Equal(t, reconciliation.LinePartial, statuses[m.Lines[0].ID])
	assert.Equal(t, reconciliation.LineNotReceived, statuses[m.Lines[1].ID])
}

// Serie fuera del set enviado: el movimiento se persiste igual, marcado para
// revisión, y la anomalía sale en la respuesta.
func TestReceive_SerieFueraDelSet(t *testing.T) {
	uc, repo := fixture()
	m := createShipment(t, uc,
		dto.MovementLineRequest{ProductID: "prod-serial", SerialNumbers: []string{"SN-1", "SN-2"}},
	)

	updated, statuses, anomalies, err := uc.Receive(context.Background(), "comp-1", m.ID, dto.ReceiveMovementRequest{
		Lines: []dto.ReceiptLineRequest{{LineID: m.Lines[0].ID, SerialNumbers: []string{"SN-1", "SN-99"}}},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusREVIEWREQUIRED, updated.CompleteStatus)
	assert.Equal(t, reconciliation.LineSerialMismatch, statuses[m.Lines[0].ID])
	require.Len(t, anomalies, 1)
	assert.Equal(t, m.Lines[0].ID, anomalies[0].LineID)
	require.Len(t, repo.updated, 1, "la anomalía no bloquea la persistencia")
}

func TestReceive_SobreRecepcionMarcaRevision(t *testing.T) {
	uc, _ := fixture()
	m := createShipment(t, uc,
		dto.MovementLineRequest{ProductID: "prod-simple", QuantitySent: qty(10)},
	)

	received := qty(12)
	updated, _, anomalies, err := uc.Receive(context.Background(), "comp-1", m.ID, dto.ReceiveMovementRequest{
		Lines: []dto.ReceiptLineRequest{{LineID: m.Lines[0].ID, QuantityReceived: &received}},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusREVIEWREQUIRED, updated.CompleteStatus)
	require.Len(t, anomalies, 1)
	assert.Equal(t, reconciliation.LineOverReceived, anomalies[0].Status)
}

func TestReceive_Rechazos(t *testing.T) {
	uc, _ := fixture()
	m := createShipment(t, uc,
		dto.MovementLineRequest{ProductID: "prod-simple", QuantitySent: qty(10)},
	)

	t.Run("movimiento inexistente", func(t *testing.T) {
		_, _, _, err := uc.Receive(context.Background(), "comp-1", "mov-fantasma", dto.ReceiveMovementRequest{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("movimiento de otra empresa", func(t *testing.T) {
		_, _, _, err := uc.Receive(context.Background(), "otra-empresa", m.ID, dto.ReceiveMovementRequest{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("línea desconocida", func(t *testing.T) {
		_, _, _, err := uc.Receive(context.Background(), "comp-1", m.ID, dto.ReceiveMovementRequest{
			Lines: []dto.ReceiptLineRequest{{LineID: "line-fantasma"}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("cantidad negativa", func(t *testing.T) {
		neg := decimal.NewFromInt(-1)
		_, _, _, err := uc.Receive(context.Background(), "comp-1", m.ID, dto.ReceiveMovementRequest{
			Lines: []dto.ReceiptLineRequest{{LineID: m.Lines[0].ID, QuantityReceived: &neg}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByID_DevuelveEstadosPorLinea(t *testing.T) {
	uc, _ := fixture()
	m := createShipment(t, uc,
		dto.MovementLineRequest{ProductID: "prod-simple", QuantitySent: qty(10)},
	)

	got, statuses, err := uc.GetByID(context.Background(), "comp-1", m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, reconciliation.LineNotReceived, statuses[m.Lines[0].ID])
}
