package importer

import (
	"context"

	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

// PersistenceSink es el colaborador externo de persistencia. Cada llamada es
// todo-o-nada: el sink es la fuente de verdad de lo que quedó confirmado y
// este núcleo nunca intenta rollback local.
type PersistenceSink interface {
	// CreateMovement persiste un movimiento con todas sus líneas y series
	// como unidad.
	CreateMovement(ctx context.Context, movement *entity.Movement) (*entity.Movement, error)
	// CreateProductsBatch persiste el lote completo de productos.
	CreateProductsBatch(ctx context.Context, products []*entity.Product) ([]*entity.Product, error)
}

// ProgressFn recibe porcentajes enteros 0–100, monótonos no decrecientes y en
// orden de envío: la UI mueve la barra de progreso directamente con ellos.
type ProgressFn func(percent int)
