package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
)

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

// VehicleRepo implementación del puerto VehicleRepository sobre PostgreSQL.
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

// GetByID obtiene un vehículo por ID.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	query := `SELECT id, company_id, plate, model, created_at, updated_at FROM vehicles WHERE id = $1`
	var v entity.Vehicle
	err := r.q.QueryRow(ctx, query, id).Scan(&v.ID, &v.CompanyID, &v.Plate, &v.Model, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(fmt.Errorf("get vehicle: %w", err))
	}
	return &v, nil
}

// ListByCompany lista los vehículos de una empresa paginados.
func (r *VehicleRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	query := `SELECT id, company_id, plate, model, created_at, updated_at FROM vehicles WHERE company_id = $1 ORDER BY plate LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, classify(fmt.Errorf("list vehicles: %w", err))
	}
	defer rows.Close()

	var list []*entity.Vehicle
	for rows.Next() {
		var v entity.Vehicle
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Plate, &v.Model, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
