// Package importer orquesta el pipeline de importación masiva:
// bytes → filas crudas → campos mapeados → registros validados → sink.
// Síncrono y de un solo hilo por importación (los lotes están acotados a 500
// filas); solo la etapa de reintentos del submitter suspende.
package importer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/importing"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/tabular"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
)

// DefaultMaxFileBytes límite de tamaño de archivo por importación (10 MB).
const DefaultMaxFileBytes = 10 << 20

// Limits topes por importación, configurables por ambiente (IMPORT_*).
// Los campos en cero caen al valor por defecto.
type Limits struct {
	MaxFileBytes int
	MaxRows      int
}

func (l Limits) normalized() Limits {
	if l.MaxFileBytes <= 0 {
		l.MaxFileBytes = DefaultMaxFileBytes
	}
	if l.MaxRows <= 0 {
		l.MaxRows = importing.DefaultMaxRows
	}
	return l
}

// ProductImportUseCase importa el esquema fijo de productos desde un archivo
// CSV o XLSX con resolución automática de columnas por alias.
type ProductImportUseCase struct {
	submitter *BatchSubmitter
	limits    Limits
	log       *logger.Logger
}

// NewProductImportUseCase construye el caso de uso.
func NewProductImportUseCase(submitter *BatchSubmitter, limits Limits, log *logger.Logger) *ProductImportUseCase {
	return &ProductImportUseCase{submitter: submitter, limits: limits.normalized(), log: log}
}

// ImportProducts corre el pipeline completo sobre el archivo subido. Si el
// lote trae issues devuelve el reporte con la lista completa y NO envía nada
// al sink: un lote es enviable solo con cero issues.
func (uc *ProductImportUseCase) ImportProducts(
	ctx context.Context,
	companyID, userID string,
	data []byte,
	hint tabular.Hint,
	progress ProgressFn,
) (dto.ImportReport, error) {
	if len(data) > uc.limits.MaxFileBytes {
		return dto.ImportReport{}, domain.ErrFileTooLarge
	}

	rows, rowIssues, err := tabular.Ingest(data, hint)
	if err != nil {
		return dto.ImportReport{}, err
	}
	if len(rows) == 0 {
		return dto.ImportReport{Issues: append(rowIssues, importing.Issue{Message: "el archivo no contiene filas de datos"})}, nil
	}

	mapping, err := importing.ResolveMapping(rows[0].Labels(), importing.ProductAliasTable())
	if err != nil {
		return dto.ImportReport{}, err
	}

	records := make([]*importing.CanonicalRecord, len(rows))
	for i, raw := range rows {
		// La fila del issue es la línea real de la hoja, no la posición en
		// el lote: con filas descartadas en la ingesta ambas divergen.
		records[i] = importing.FromRawRow(raw.Line, raw, mapping)
	}

	policy := importing.ProductImportPolicy()
	policy.MaxRows = uc.limits.MaxRows
	valid, issues := importing.Validate(records, policy)
	issues = append(rowIssues, issues...)
	if len(issues) > 0 {
		uc.log.Info().
			Str("company_id", companyID).
			Int("rows", len(rows)).
			Int("issues", len(issues)).
			Msg("importación de productos rechazada por validación")
		return dto.ImportReport{Issues: issues}, nil
	}

	now := time.Now()
	products := make([]*entity.Product, len(valid))
	for i, rec := range valid {
		products[i] = &entity.Product{
			ID:         uuid.New().String(),
			CompanyID:  companyID,
			Code:       rec.Code,
			Name:       rec.Name,
			Barcode:    rec.Barcode,
			Serialized: rec.Serialized,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	created, err := uc.submitter.SubmitProducts(ctx, products, progress)
	if err != nil {
		return dto.ImportReport{}, err
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("user_id", userID).
		Int("submitted", len(created)).
		Msg("importación de productos completada")
	return dto.ImportReport{Submitted: len(created)}, nil
}
