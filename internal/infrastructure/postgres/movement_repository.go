package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL
// (usable con pool o tx). Para que Create sea atómico debe correr dentro de
// una transacción (ver TxRunner / Sink).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste el movimiento, sus líneas y sus series enviadas.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, company_id, type, source_warehouse_id, destination_warehouse_id,
			driver_name, vehicle_id, complete_status, created_at, updated_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	driverName := nullable(m.DriverName)
	vehicleID := nullable(m.VehicleID)
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.Type, m.SourceWarehouseID, m.DestinationWarehouseID,
		driverName, vehicleID, m.CompleteStatus, m.CreatedAt, m.UpdatedAt, m.CreatedBy,
	)
	if err != nil {
		return classify(fmt.Errorf("insert movement: %w", err))
	}

	for _, line := range m.Lines {
		if err := r.createLine(ctx, m.ID, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *MovementRepo) createLine(ctx context.Context, movementID string, line *entity.MovementLine) error {
	query := `
		INSERT INTO movement_lines (id, movement_id, product_id, quantity_sent, quantity_received,
			batch_number, container_number, bill_of_lading_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		line.ID, movementID, line.ProductID, line.QuantitySent, line.QuantityReceived,
		nullable(line.BatchNumber), nullable(line.ContainerNumber), nullable(line.BillOfLadingNumber),
	)
	if err != nil {
		return classify(fmt.Errorf("insert movement line: %w", err))
	}
	return r.replaceSerials(ctx, line.ID, "SENT", line.SerialNumbersSent)
}

// replaceSerials reemplaza las series de una línea en una dirección
// (SENT | RECEIVED).
func (r *MovementRepo) replaceSerials(ctx context.Context, lineID, direction string, serials []entity.SerialNumber) error {
	if _, err := r.q.Exec(ctx,
		`DELETE FROM movement_serial_numbers WHERE line_id = $1 AND direction = $2`,
		lineID, direction,
	); err != nil {
		return classify(fmt.Errorf("delete serials: %w", err))
	}
	if len(serials) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO movement_serial_numbers (id, line_id, direction, value) VALUES ($1, $2, $3, $4)`
	for i := range serials {
		if serials[i].ID == "" {
			serials[i].ID = uuid.New().String()
		}
		batch.Queue(query, serials[i].ID, lineID, direction, serials[i].Value)
	}
	results := r.q.SendBatch(ctx, batch)
	defer results.Close()
	for range serials {
		if _, err := results.Exec(); err != nil {
			return classify(fmt.Errorf("insert serial: %w", err))
		}
	}
	return nil
}

// GetByID obtiene un movimiento con sus líneas y series.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `
		SELECT id, company_id, type, source_warehouse_id, destination_warehouse_id,
			driver_name, vehicle_id, complete_status, created_at, updated_at, created_by
		FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("get movement: %w", err))
	}
	if err := r.loadLines(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListByCompany lista los movimientos de una empresa, más recientes primero,
// con sus líneas y series.
func (r *MovementRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, company_id, type, source_warehouse_id, destination_warehouse_id,
			driver_name, vehicle_id, complete_status, created_at, updated_at, created_by
		FROM movements WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, classify(fmt.Errorf("list movements: %w", err))
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range list {
		if err := r.loadLines(ctx, m); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateReceipt persiste el estado conciliado, las cantidades recibidas y
// las series recibidas de todas las líneas.
func (r *MovementRepo) UpdateReceipt(ctx context.Context, m *entity.Movement) error {
	if _, err := r.q.Exec(ctx,
		`UPDATE movements SET complete_status = $1, updated_at = $2 WHERE id = $3`,
		m.CompleteStatus, m.UpdatedAt, m.ID,
	); err != nil {
		return classify(fmt.Errorf("update movement status: %w", err))
	}
	for _, line := range m.Lines {
		if _, err := r.q.Exec(ctx,
			`UPDATE movement_lines SET quantity_received = $1 WHERE id = $2`,
			line.QuantityReceived, line.ID,
		); err != nil {
			return classify(fmt.Errorf("update movement line: %w", err))
		}
		if err := r.replaceSerials(ctx, line.ID, "RECEIVED", line.SerialNumbersReceived); err != nil {
			return err
		}
	}
	return nil
}

func (r *MovementRepo) loadLines(ctx context.Context, m *entity.Movement) error {
	query := `
		SELECT id, movement_id, product_id, quantity_sent, quantity_received,
			batch_number, container_number, bill_of_lading_number
		FROM movement_lines WHERE movement_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, m.ID)
	if err != nil {
		return classify(fmt.Errorf("list movement lines: %w", err))
	}
	defer rows.Close()

	m.Lines = nil
	for rows.Next() {
		var line entity.MovementLine
		var batch, container, bl *string
		if err := rows.Scan(&line.ID, &line.MovementID, &line.ProductID,
			&line.QuantitySent, &line.QuantityReceived, &batch, &container, &bl); err != nil {
			return fmt.Errorf("scan movement line: %w", err)
		}
		line.BatchNumber = deref(batch)
		line.ContainerNumber = deref(container)
		line.BillOfLadingNumber = deref(bl)
		m.Lines = append(m.Lines, &line)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, line := range m.Lines {
		if err := r.loadSerials(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *MovementRepo) loadSerials(ctx context.Context, line *entity.MovementLine) error {
	query := `SELECT id, direction, value FROM movement_serial_numbers WHERE line_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, line.ID)
	if err != nil {
		return classify(fmt.Errorf("list serials: %w", err))
	}
	defer rows.Close()

	line.SerialNumbersSent = nil
	line.SerialNumbersReceived = nil
	for rows.Next() {
		var sn entity.SerialNumber
		var direction string
		if err := rows.Scan(&sn.ID, &direction, &sn.Value); err != nil {
			return fmt.Errorf("scan serial: %w", err)
		}
		if direction == "RECEIVED" {
			line.SerialNumbersReceived = append(line.SerialNumbersReceived, sn)
		} else {
			line.SerialNumbersSent = append(line.SerialNumbersSent, sn)
		}
	}
	return rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var driverName, vehicleID, createdBy *string
	if err := row.Scan(&m.ID, &m.CompanyID, &m.Type, &m.SourceWarehouseID, &m.DestinationWarehouseID,
		&driverName, &vehicleID, &m.CompleteStatus, &m.CreatedAt, &m.UpdatedAt, &createdBy); err != nil {
		return nil, err
	}
	m.DriverName = deref(driverName)
	m.VehicleID = deref(vehicleID)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
