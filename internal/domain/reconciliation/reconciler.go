// Package reconciliation calcula la completitud de entrega de un movimiento
// comparando lo despachado contra lo recibido, por cantidades o por
// pertenencia de números de serie según el producto. Lógica pura de dominio:
// sin persistencia, idempotente (misma línea, mismo estado).
package reconciliation

import (
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
)

// LineStatus es el estado de conciliación de una línea de movimiento.
type LineStatus string

const (
	LineNotReceived    LineStatus = "NOT_RECEIVED"
	LinePartial        LineStatus = "PARTIAL"
	LineFull           LineStatus = "FULL"
	LineOverReceived   LineStatus = "OVER_RECEIVED"
	LineSerialMismatch LineStatus = "SERIAL_MISMATCH"
)

// IsAnomaly indica si el estado es un hallazgo que exige revisión manual.
// Las anomalías se reportan y el movimiento igual se persiste marcado.
func (s LineStatus) IsAnomaly() bool {
	return s == LineOverReceived || s == LineSerialMismatch
}

// ReconcileLine devuelve el estado de una línea. serialized indica si el
// producto de la línea se controla por número de serie.
//
// Producto no serializado: comparación de cantidades recibida vs enviada.
// Producto serializado: comparación de conjuntos de series; una serie
// recibida que no está en el conjunto enviado es SERIAL_MISMATCH y tiene
// prioridad sobre cualquier otra clasificación, porque señala un problema de
// integridad de datos y no un avance de entrega.
func ReconcileLine(line *entity.MovementLine, serialized bool) LineStatus {
	if serialized {
		return reconcileSerialized(line)
	}
	return reconcileByQuantity(line)
}

func reconcileByQuantity(line *entity.MovementLine) LineStatus {
	if line.QuantityReceived == nil || line.QuantityReceived.IsZero() {
		return LineNotReceived
	}
	received := *line.QuantityReceived
	switch {
	case received.Equal(line.QuantitySent):
		return LineFull
	case received.GreaterThan(line.QuantitySent):
		return LineOverReceived
	default:
		return LinePartial
	}
}

func reconcileSerialized(line *entity.MovementLine) LineStatus {
	sent := make(map[string]bool, len(line.SerialNumbersSent))
	for _, sn := range line.SerialNumbersSent {
		sent[sn.Value] = true
	}

	// Intersección como conjunto: una serie repetida en la recepción no
	// cuenta dos veces.
	matched := make(map[string]bool, len(line.SerialNumbersReceived))
	for _, sn := range line.SerialNumbersReceived {
		if !sent[sn.Value] {
			// Una serie fuera del set enviado invalida el conteo completo,
			// incluso si otras series sí coinciden.
			return LineSerialMismatch
		}
		matched[sn.Value] = true
	}

	switch {
	case len(matched) == 0:
		return LineNotReceived
	case len(matched) == len(sent):
		return LineFull
	default:
		return LinePartial
	}
}

// ReconcileMovement agrega los estados de línea al estado del movimiento.
// serializedByProduct responde si cada ProductID se controla por serie.
//
// Reglas de agregación: cualquier SERIAL_MISMATCH u OVER_RECEIVED fuerza
// REVIEW_REQUIRED sin promediarse con el resto; COMPLETE solo si TODAS las
// líneas quedan FULL; todas sin recibir deja el movimiento IN_TRANSIT.
func ReconcileMovement(m *entity.Movement, serializedByProduct map[string]bool) string {
	anyReceived := false
	allFull := len(m.Lines) > 0

	for _, line := range m.Lines {
		status := ReconcileLine(line, serializedByProduct[line.ProductID])
		if status.IsAnomaly() {
			return entity.MovementStatusREVIEWREQUIRED
		}
		if status != LineNotReceived {
			anyReceived = true
		}
		if status != LineFull {
			allFull = false
		}
	}

	switch {
	case allFull:
		return entity.MovementStatusCOMPLETE
	case anyReceived:
		return entity.MovementStatusPARTIAL
	default:
		return entity.MovementStatusINTRANSIT
	}
}

// Anomaly describe un hallazgo de conciliación de una línea, para log y
// respuesta al llamador (no es fatal: el movimiento se persiste marcado).
type Anomaly struct {
	LineID    string     `json:"line_id"`
	ProductID string     `json:"product_id"`
	Status    LineStatus `json:"status"`
}

// Anomalies recorre las líneas del movimiento y devuelve los hallazgos que
// requieren revisión manual.
func Anomalies(m *entity.Movement, serializedByProduct map[string]bool) []Anomaly {
	var out []Anomaly
	for _, line := range m.Lines {
		status := ReconcileLine(line, serializedByProduct[line.ProductID])
		if status.IsAnomaly() {
			out = append(out, Anomaly{LineID: line.ID, ProductID: line.ProductID, Status: status})
		}
	}
	return out
}
