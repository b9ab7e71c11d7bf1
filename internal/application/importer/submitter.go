package importer

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

// RetryConfig parametriza el reintento del lote completo ante fallas
// transitorias del sink: backoff exponencial base×2^intento con tope.
// El reintento parcial está prohibido: el endpoint destino no soporta
// replays parciales idempotentes.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig presupuesto de reintentos del dominio.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second}
}

// BatchSubmitter entrega lotes validados al sink de persistencia reportando
// progreso monótono 0→100.
type BatchSubmitter struct {
	sink PersistenceSink
	cfg  RetryConfig
	log  *logger.Logger
}

// NewBatchSubmitter construye el submitter.
func NewBatchSubmitter(sink PersistenceSink, cfg RetryConfig, log *logger.Logger) *BatchSubmitter {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	return &BatchSubmitter{sink: sink, cfg: cfg, log: log}
}

// progressEmitter garantiza monotonicidad: los reintentos vuelven a entregar
// registros pero nunca emiten un porcentaje menor al ya reportado.
type progressEmitter struct {
	fn      ProgressFn
	last    int
	started bool
}

func (p *progressEmitter) emit(pct int) {
	if p.fn == nil {
		return
	}
	if pct > 100 {
		pct = 100
	}
	if p.started && pct <= p.last {
		return
	}
	p.started = true
	p.last = pct
	p.fn(pct)
}

// handedPercent es el avance real por registros entregados al lote, con tope
// en 99: el 100 se reserva para la confirmación del sink.
func handedPercent(handed, total int) int {
	if total == 0 {
		return 99
	}
	pct := handed * 100 / total
	if pct > 99 {
		pct = 99
	}
	return pct
}

// SubmitProducts entrega el lote de productos al sink con reintentos.
func (s *BatchSubmitter) SubmitProducts(ctx context.Context, products []*entity.Product, progress ProgressFn) ([]*entity.Product, error) {
	em := &progressEmitter{fn: progress}
	em.emit(0)

	var created []*entity.Product
	err := s.retry(ctx, func(callCtx context.Context) error {
		for i := range products {
			em.emit(handedPercent(i+1, len(products)))
		}
		out, err := s.sink.CreateProductsBatch(callCtx, products)
		if err != nil {
			return err
		}
		created = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	em.emit(100)
	return created, nil
}

// SubmitMovement entrega un movimiento (con todas sus líneas) al sink con
// reintentos.
func (s *BatchSubmitter) SubmitMovement(ctx context.Context, movement *entity.Movement, progress ProgressFn) (*entity.Movement, error) {
	em := &progressEmitter{fn: progress}
	em.emit(0)

	var created *entity.Movement
	err := s.retry(ctx, func(callCtx context.Context) error {
		for i := range movement.Lines {
			em.emit(handedPercent(i+1, len(movement.Lines)))
		}
		out, err := s.sink.CreateMovement(callCtx, movement)
		if err != nil {
			return err
		}
		created = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	em.emit(100)
	return created, nil
}

// retry ejecuta call hasta MaxAttempts veces mientras el error sea
// transitorio (domain.ErrUnavailable). La llamada al sink recibe un contexto
// sin cancelación: una llamada ya emitida siempre se espera hasta su
// desenlace; la cancelación del caller se honra antes de la siguiente llamada
// y durante las esperas de backoff.
func (s *BatchSubmitter) retry(ctx context.Context, call func(context.Context) error) error {
	callCtx := context.WithoutCancel(ctx)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := s.wait(ctx, attempt-1); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = call(callCtx)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, domain.ErrUnavailable) {
			return lastErr
		}
		s.log.Warn().
			Int("attempt", attempt).
			Int("max_attempts", s.cfg.MaxAttempts).
			Err(lastErr).
			Msg("sink no disponible, se reintenta el lote completo")
	}
	return lastErr
}

// wait duerme base×2^(retry-1) con tope MaxDelay, cancelable por ctx.
func (s *BatchSubmitter) wait(ctx context.Context, retry int) error {
	delay := s.cfg.BaseDelay << (retry - 1)
	if s.cfg.MaxDelay > 0 && delay > s.cfg.MaxDelay {
		delay = s.cfg.MaxDelay
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
