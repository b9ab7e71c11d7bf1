package postgres

import (
	"context"

	"github.com/jhoicas/Movimientos-api/internal/application/importer"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/repository"
)

var _ importer.PersistenceSink = (*Sink)(nil)

// Sink implementa el puerto de persistencia del Batch Submitter sobre
// PostgreSQL. Cada llamada corre en su propia transacción: todo-o-nada, la
// base queda como fuente de verdad de lo confirmado.
type Sink struct {
	tx *TxRunner
}

// NewSink construye el sink con el runner transaccional.
func NewSink(tx *TxRunner) *Sink {
	return &Sink{tx: tx}
}

// CreateMovement persiste el movimiento completo (líneas y series incluidas)
// en una transacción.
func (s *Sink) CreateMovement(ctx context.Context, movement *entity.Movement) (*entity.Movement, error) {
	err := s.tx.Run(ctx, func(movementRepo repository.MovementRepository, _ repository.ProductRepository) error {
		return movementRepo.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// CreateProductsBatch persiste el lote completo de productos en una
// transacción.
func (s *Sink) CreateProductsBatch(ctx context.Context, products []*entity.Product) ([]*entity.Product, error) {
	err := s.tx.Run(ctx, func(_ repository.MovementRepository, productRepo repository.ProductRepository) error {
		return productRepo.CreateBatch(ctx, products)
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}
