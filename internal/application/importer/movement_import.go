package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/importing"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/tabular"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

// MovementImportUseCase arma un despacho o traslado a partir de un archivo de
// unidades. A diferencia del esquema fijo de productos, aquí NO hay
// inferencia automática: el operario enlaza a mano las columnas libres
// (serie, lote, contenedor, BL) y selecciona producto y bodegas.
type MovementImportUseCase struct {
	submitter     *BatchSubmitter
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	vehicleRepo   repository.VehicleRepository
	limits        Limits
	log           *logger.Logger
}

// NewMovementImportUseCase construye el caso de uso.
func NewMovementImportUseCase(
	submitter *BatchSubmitter,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	vehicleRepo repository.VehicleRepository,
	limits Limits,
	log *logger.Logger,
) *MovementImportUseCase {
	return &MovementImportUseCase{
		submitter:     submitter,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		vehicleRepo:   vehicleRepo,
		limits:        limits.normalized(),
		log:           log,
	}
}

// ImportMovement ingiere el archivo, valida el binding explícito y las filas,
// arma el movimiento con su línea y lo entrega al sink como unidad. Devuelve
// el reporte con la lista completa de issues cuando el lote no es enviable.
func (uc *MovementImportUseCase) ImportMovement(
	ctx context.Context,
	companyID, userID string,
	req dto.MovementImportRequest,
	data []byte,
	progress ProgressFn,
) (*entity.Movement, dto.ImportReport, error) {
	if len(data) > uc.limits.MaxFileBytes {
		return nil, dto.ImportReport{}, domain.ErrFileTooLarge
	}

	product, warehouses, err := uc.resolveCatalog(ctx, companyID, req)
	if err != nil {
		return nil, dto.ImportReport{}, err
	}

	rows, rowIssues, err := tabular.Ingest(data, tabular.Hint{Sheet: req.Sheet})
	if err != nil {
		return nil, dto.ImportReport{}, err
	}
	if len(rows) == 0 {
		return nil, dto.ImportReport{Issues: append(rowIssues, importing.Issue{Message: "el archivo no contiene filas de datos"})}, nil
	}

	// Binding explícito: la serie es obligatoria para productos
	// serializados; lote, contenedor y BL se validan solo si vienen.
	var required []string
	if product.Serialized {
		required = []string{importing.FieldSerialNumber}
	}
	binding := importing.ColumnMapping(req.Binding)
	if err := importing.ValidateBinding(binding, rows[0].Labels(), required); err != nil {
		return nil, dto.ImportReport{}, err
	}

	records := make([]*importing.CanonicalRecord, len(rows))
	for i, raw := range rows {
		records[i] = importing.FromRawRow(raw.Line, raw, binding)
	}
	policy := importing.MovementLineImportPolicy()
	policy.MaxRows = uc.limits.MaxRows
	valid, issues := importing.Validate(records, policy)
	issues = append(rowIssues, issues...)

	line, lineIssues := buildLine(valid, product)
	issues = append(issues, lineIssues...)
	if len(issues) > 0 {
		uc.log.Info().
			Str("company_id", companyID).
			Str("product_id", req.ProductID).
			Int("issues", len(issues)).
			Msg("carga de movimiento rechazada por validación")
		return nil, dto.ImportReport{Issues: issues}, nil
	}

	now := time.Now()
	movement := &entity.Movement{
		ID:                     uuid.New().String(),
		CompanyID:              companyID,
		Type:                   req.Type,
		SourceWarehouseID:      warehouses[0].ID,
		DestinationWarehouseID: warehouses[1].ID,
		DriverName:             req.DriverName,
		VehicleID:              req.VehicleID,
		Lines:                  []*entity.MovementLine{line},
		CompleteStatus:         entity.MovementStatusINTRANSIT,
		CreatedAt:              now,
		UpdatedAt:              now,
		CreatedBy:              userID,
	}
	line.MovementID = movement.ID

	created, err := uc.submitter.SubmitMovement(ctx, movement, progress)
	if err != nil {
		return nil, dto.ImportReport{}, err
	}

	uc.log.Info().
		Str("movement_id", created.ID).
		Str("company_id", companyID).
		Int("serials", len(line.SerialNumbersSent)).
		Msg("movimiento creado desde archivo")
	return created, dto.ImportReport{Submitted: len(valid)}, nil
}

// resolveCatalog valida tipo de movimiento, producto, bodegas y vehículo
// contra el catálogo antes de tocar el archivo.
func (uc *MovementImportUseCase) resolveCatalog(
	ctx context.Context,
	companyID string,
	req dto.MovementImportRequest,
) (*entity.Product, [2]*entity.Warehouse, error) {
	var none [2]*entity.Warehouse

	if req.Type != entity.MovementTypeSHIPMENT && req.Type != entity.MovementTypeTRANSFER {
		return nil, none, domain.ErrInvalidInput
	}
	if req.SourceWarehouseID == req.DestinationWarehouseID {
		return nil, none, domain.ErrInvalidInput
	}
	if req.Type == entity.MovementTypeSHIPMENT && (req.DriverName == "" || req.VehicleID == "") {
		return nil, none, domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, none, err
	}
	if product == nil {
		return nil, none, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, none, domain.ErrForbidden
	}

	src, err := uc.warehouseRepo.GetByID(ctx, req.SourceWarehouseID)
	if err != nil {
		return nil, none, err
	}
	dst, err := uc.warehouseRepo.GetByID(ctx, req.DestinationWarehouseID)
	if err != nil {
		return nil, none, err
	}
	if src == nil || dst == nil || src.CompanyID != companyID || dst.CompanyID != companyID {
		return nil, none, domain.ErrNotFound
	}

	if req.Type == entity.MovementTypeSHIPMENT {
		vehicle, err := uc.vehicleRepo.GetByID(ctx, req.VehicleID)
		if err != nil {
			return nil, none, err
		}
		if vehicle == nil || vehicle.CompanyID != companyID {
			return nil, none, domain.ErrNotFound
		}
	}

	return product, [2]*entity.Warehouse{src, dst}, nil
}

// buildLine consolida las filas validadas en la línea del movimiento.
// Producto serializado: una unidad por serie, cantidad = series únicas.
// No serializado: cantidad = suma de la columna de cantidades, o el número
// de filas si el archivo no trae cantidades.
func buildLine(records []*importing.CanonicalRecord, product *entity.Product) (*entity.MovementLine, []importing.Issue) {
	line := &entity.MovementLine{
		ID:        uuid.New().String(),
		ProductID: product.ID,
	}

	var issues []importing.Issue
	seen := make(map[string]int)
	total := decimal.Zero
	sawQuantity := false

	for _, rec := range records {
		for _, sn := range rec.SerialNumbers {
			if first, ok := seen[sn]; ok {
				issues = append(issues, importing.Issue{
					Row:     rec.Row,
					Field:   importing.FieldSerialNumber,
					Message: fmt.Sprintf("número de serie %q repetido (ya aparece en la fila %d)", sn, first),
				})
				continue
			}
			seen[sn] = rec.Row
			line.SerialNumbersSent = append(line.SerialNumbersSent, entity.SerialNumber{Value: sn})
		}
		if rec.Quantity != nil {
			total = total.Add(*rec.Quantity)
			sawQuantity = true
		}
		if line.BatchNumber == "" {
			line.BatchNumber = rec.BatchNumber
		}
		if line.ContainerNumber == "" {
			line.ContainerNumber = rec.ContainerNumber
		}
		if line.BillOfLadingNumber == "" {
			line.BillOfLadingNumber = rec.BillOfLadingNumber
		}
	}

	switch {
	case product.Serialized:
		if len(line.SerialNumbersSent) == 0 {
			issues = append(issues, importing.Issue{
				Field:   importing.FieldSerialNumber,
				Message: "el producto es serializado y el archivo no trae números de serie",
			})
		}
		line.QuantitySent = decimal.NewFromInt(int64(len(line.SerialNumbersSent)))
	case sawQuantity:
		line.QuantitySent = total
	default:
		line.QuantitySent = decimal.NewFromInt(int64(len(records)))
	}

	if line.QuantitySent.IsZero() && !product.Serialized {
		issues = append(issues, importing.Issue{
			Field:   importing.FieldQuantity,
			Message: "la cantidad resuelta del movimiento es cero",
		})
	}

	return line, issues
}
