package repository

import (
	"context"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para Movement.
// Create persiste el movimiento con TODAS sus líneas y series como unidad;
// la implementación garantiza que nunca queda a medias.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Movement, error)
	UpdateReceipt(ctx context.Context, movement *entity.Movement) error
}
