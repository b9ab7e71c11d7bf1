// Package movements implementa los casos de uso de despachos y traslados:
// creación validada contra el catálogo, registro de recepción y conciliación
// de lo recibido contra lo despachado.
package movements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/reconciliation"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

// UseCase agrupa las operaciones sobre movimientos.
type UseCase struct {
	movementRepo  repository.MovementRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	vehicleRepo   repository.VehicleRepository
	manifest      ManifestGenerator
	log           *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	vehicleRepo repository.VehicleRepository,
	manifest ManifestGenerator,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		movementRepo:  movementRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		vehicleRepo:   vehicleRepo,
		manifest:      manifest,
		log:           log,
	}
}

// Create valida y persiste un despacho o traslado. El movimiento y todas sus
// líneas entran en una sola transacción: nunca queda a medias.
func (uc *UseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateMovementRequest) (*entity.Movement, error) {
	if err := uc.validateHeader(ctx, companyID, in); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	movement := &entity.Movement{
		ID:                     uuid.New().String(),
		CompanyID:              companyID,
		Type:                   in.Type,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		DriverName:             in.DriverName,
		VehicleID:              in.VehicleID,
		CompleteStatus:         entity.MovementStatusINTRANSIT,
		CreatedAt:              now,
		UpdatedAt:              now,
		CreatedBy:              userID,
	}

	for _, lineIn := range in.Lines {
		line, err := uc.buildLine(ctx, companyID, movement.ID, lineIn)
		if err != nil {
			return nil, err
		}
		movement.Lines = append(movement.Lines, line)
	}

	if err := uc.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", movement.ID).
		Str("type", movement.Type).
		Int("lines", len(movement.Lines)).
		Msg("movimiento creado")
	return movement, nil
}

func (uc *UseCase) validateHeader(ctx context.Context, companyID string, in dto.CreateMovementRequest) error {
	if in.Type != entity.MovementTypeSHIPMENT && in.Type != entity.MovementTypeTRANSFER {
		return domain.ErrInvalidInput
	}
	if in.SourceWarehouseID == "" || in.DestinationWarehouseID == "" ||
		in.SourceWarehouseID == in.DestinationWarehouseID {
		return domain.ErrInvalidInput
	}
	if in.Type == entity.MovementTypeSHIPMENT && (in.DriverName == "" || in.VehicleID == "") {
		return domain.ErrInvalidInput
	}

	src, err := uc.warehouseRepo.GetByID(ctx, in.SourceWarehouseID)
	if err != nil {
		return err
	}
	dst, err := uc.warehouseRepo.GetByID(ctx, in.DestinationWarehouseID)
	if err != nil {
		return err
	}
	if src == nil || dst == nil || src.CompanyID != companyID || dst.CompanyID != companyID {
		return domain.ErrNotFound
	}

	if in.Type == entity.MovementTypeSHIPMENT {
		vehicle, err := uc.vehicleRepo.GetByID(ctx, in.VehicleID)
		if err != nil {
			return err
		}
		if vehicle == nil || vehicle.CompanyID != companyID {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (uc *UseCase) buildLine(ctx context.Context, companyID, movementID string, in dto.MovementLineRequest) (*entity.MovementLine, error) {
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	line := &entity.MovementLine{
		ID:                 uuid.New().String(),
		MovementID:         movementID,
		ProductID:          product.ID,
		QuantitySent:       in.QuantitySent,
		BatchNumber:        in.BatchNumber,
		ContainerNumber:    in.ContainerNumber,
		BillOfLadingNumber: in.BillOfLadingNumber,
	}

	seen := make(map[string]bool, len(in.SerialNumbers))
	for _, sn := range in.SerialNumbers {
		if sn == "" || seen[sn] {
			return nil, domain.ErrInvalidInput
		}
		seen[sn] = true
		line.SerialNumbersSent = append(line.SerialNumbersSent, entity.SerialNumber{Value: sn})
	}

	if product.Serialized {
		// En producto serializado la cantidad es el número de series.
		if len(line.SerialNumbersSent) == 0 {
			return nil, domain.ErrInvalidInput
		}
		if !line.QuantitySent.IsZero() &&
			!line.QuantitySent.Equal(decimalFromInt(len(line.SerialNumbersSent))) {
			return nil, domain.ErrInvalidInput
		}
		line.QuantitySent = decimalFromInt(len(line.SerialNumbersSent))
	} else if !line.QuantitySent.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	return line, nil
}

// Receive registra lo recibido en la bodega destino, corre la conciliación y
// persiste el estado derivado. Las anomalías (series fuera del set enviado,
// sobre-recepción) se reportan y quedan en log: el movimiento igual se
// persiste marcado para revisión, nunca se promedian en silencio.
func (uc *UseCase) Receive(ctx context.Context, companyID, movementID string, in dto.ReceiveMovementRequest) (*entity.Movement, map[string]reconciliation.LineStatus, []reconciliation.Anomaly, error) {
	movement, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, nil, nil, err
	}
	if movement == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	if movement.CompanyID != companyID {
		return nil, nil, nil, domain.ErrForbidden
	}

	lines := make(map[string]*entity.MovementLine, len(movement.Lines))
	for _, line := range movement.Lines {
		lines[line.ID] = line
	}
	for _, rec := range in.Lines {
		line, ok := lines[rec.LineID]
		if !ok {
			return nil, nil, nil, domain.ErrInvalidInput
		}
		if rec.QuantityReceived != nil && rec.QuantityReceived.IsNegative() {
			return nil, nil, nil, domain.ErrInvalidInput
		}
		line.QuantityReceived = rec.QuantityReceived
		line.SerialNumbersReceived = nil
		for _, sn := range rec.SerialNumbers {
			line.SerialNumbersReceived = append(line.SerialNumbersReceived, entity.SerialNumber{Value: sn})
		}
		// Con series y sin cantidad explícita, la cantidad recibida son las
		// series reportadas.
		if rec.QuantityReceived == nil && len(rec.SerialNumbers) > 0 {
			q := decimalFromInt(len(rec.SerialNumbers))
			line.QuantityReceived = &q
		}
	}

	serialized, err := uc.serializedByProduct(ctx, movement)
	if err != nil {
		return nil, nil, nil, err
	}

	movement.CompleteStatus = reconciliation.ReconcileMovement(movement, serialized)
	movement.UpdatedAt = time.Now()
	statuses := make(map[string]reconciliation.LineStatus, len(movement.Lines))
	for _, line := range movement.Lines {
		statuses[line.ID] = reconciliation.ReconcileLine(line, serialized[line.ProductID])
	}
	anomalies := reconciliation.Anomalies(movement, serialized)
	for _, a := range anomalies {
		uc.log.Warn().
			Str("movement_id", movement.ID).
			Str("line_id", a.LineID).
			Str("product_id", a.ProductID).
			Str("status", string(a.Status)).
			Msg("anomalía de conciliación, requiere revisión manual")
	}

	if err := uc.movementRepo.UpdateReceipt(ctx, movement); err != nil {
		return nil, nil, nil, err
	}

	uc.log.Info().
		Str("movement_id", movement.ID).
		Str("status", movement.CompleteStatus).
		Int("anomalies", len(anomalies)).
		Msg("recepción registrada")
	return movement, statuses, anomalies, nil
}

// GetByID devuelve un movimiento de la empresa con sus estados de línea.
func (uc *UseCase) GetByID(ctx context.Context, companyID, movementID string) (*entity.Movement, map[string]reconciliation.LineStatus, error) {
	movement, err := uc.movementRepo.GetByID(ctx, movementID)
	if err != nil {
		return nil, nil, err
	}
	if movement == nil {
		return nil, nil, domain.ErrNotFound
	}
	if movement.CompanyID != companyID {
		return nil, nil, domain.ErrForbidden
	}

	serialized, err := uc.serializedByProduct(ctx, movement)
	if err != nil {
		return nil, nil, err
	}
	statuses := make(map[string]reconciliation.LineStatus, len(movement.Lines))
	for _, line := range movement.Lines {
		statuses[line.ID] = reconciliation.ReconcileLine(line, serialized[line.ProductID])
	}
	return movement, statuses, nil
}

// List devuelve los movimientos de la empresa paginados.
func (uc *UseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Movement, error) {
	return uc.movementRepo.ListByCompany(ctx, companyID, limit, offset)
}

// serializedByProduct responde, por ProductID del movimiento, si el producto
// se controla por número de serie. Lecturas concurrentes seguras: el catálogo
// es de solo lectura para este núcleo.
func (uc *UseCase) serializedByProduct(ctx context.Context, movement *entity.Movement) (map[string]bool, error) {
	out := make(map[string]bool, len(movement.Lines))
	for _, line := range movement.Lines {
		if _, ok := out[line.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		out[line.ProductID] = product.Serialized
	}
	return out, nil
}

func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
