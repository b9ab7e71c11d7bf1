package importer_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Movimientos-api/internal/application/importer"
	"github.com/jhoicas/Movimientos-api/internal/domain"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/importing"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/tabular"
)

// recordingSink captura lo que el pipeline entrega a persistencia.
type recordingSink struct {
	products  []*entity.Product
	movements []*entity.Movement
}

func (s *recordingSink) CreateMovement(ctx context.Context, m *entity.Movement) (*entity.Movement, error) {
	s.movements = append(s.movements, m)
	return m, nil
}

func (s *recordingSink) CreateProductsBatch(ctx context.Context, products []*entity.Product) ([]*entity.Product, error) {
	s.products = append(s.products, products...)
	return products, nil
}

func newProductImportUC(sink importer.PersistenceSink) *importer.ProductImportUseCase {
	return newProductImportUCWithLimits(sink, importer.Limits{})
}

func newProductImportUCWithLimits(sink importer.PersistenceSink, limits importer.Limits) *importer.ProductImportUseCase {
	sub := importer.NewBatchSubmitter(sink, fastRetry(), testLogger())
	return importer.NewProductImportUseCase(sub, limits, testLogger())
}

// ──────────────────────────────────────────────────────────────────────────────
// Pipeline completo: bytes → filas → mapeo → validación → sink
// ──────────────────────────────────────────────────────────────────────────────

func TestImportProducts_CSVCompleto(t *testing.T) {
	csv := "Código,Nombre,Codigo de Barras,Serializado\n" +
		"P-001,Teclado,750001,no\n" +
		"P-002,Router,750002,Yes\n"
	sink := &recordingSink{}
	uc := newProductImportUC(sink)

	var progress []int
	report, err := uc.ImportProducts(context.Background(), "comp-1", "user-1",
		[]byte(csv), tabular.Hint{Filename: "productos.csv"},
		func(p int) { progress = append(progress, p) })

	require.NoError(t, err)
	assert.True(t, report.Submittable())
	assert.Equal(t, 2, report.Submitted)

	require.Len(t, sink.products, 2)
	assert.Equal(t, "comp-1", sink.products[0].CompanyID)
	assert.Equal(t, "P-001", sink.products[0].Code)
	assert.False(t, sink.products[0].Serialized)
	assert.True(t, sink.products[1].Serialized, `"Yes" coerciona a true`)
	assert.NotEmpty(t, sink.products[0].ID)

	require.NotEmpty(t, progress)
	assert.Equal(t, 100, progress[len(progress)-1])
}

// Un lote con issues no entrega NADA al sink y devuelve la lista completa.
func TestImportProducts_LoteConIssuesNoEnviaNada(t *testing.T) {
	csv := "codigo,nombre,barcode\n" +
		",Teclado,750001\n" + // sin código
		"P-002,,750002\n" + // sin nombre
		"P-003,Mouse,750003\n" // limpia
	sink := &recordingSink{}
	uc := newProductImportUC(sink)

	report, err := uc.ImportProducts(context.Background(), "comp-1", "user-1",
		[]byte(csv), tabular.Hint{}, nil)

	require.NoError(t, err)
	assert.False(t, report.Submittable())
	assert.Len(t, report.Issues, 2)
	assert.Zero(t, report.Submitted)
	assert.Empty(t, sink.products, "con issues el sink no debe recibir registros")
}

func TestImportProducts_EncabezadoSinResolver(t *testing.T) {
	csv := "columna_a,columna_b\nx,y\n"
	uc := newProductImportUC(&recordingSink{})

	_, err := uc.ImportProducts(context.Background(), "comp-1", "user-1",
		[]byte(csv), tabular.Hint{}, nil)

	var mapErr *importing.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.NotEmpty(t, mapErr.Missing)
}

func TestImportProducts_ArchivoDemasiadoGrande(t *testing.T) {
	uc := newProductImportUC(&recordingSink{})
	big := bytes.Repeat([]byte("a"), importer.DefaultMaxFileBytes+1)

	_, err := uc.ImportProducts(context.Background(), "comp-1", "user-1", big, tabular.Hint{}, nil)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

// 501 filas de datos: el lote se rechaza por regla de lote, cero enviados.
func TestImportProducts_ExcedeMaxFilas(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("codigo,nombre,barcode\n")
	for i := 0; i < 501; i++ {
		fmt.Fprintf(&sb, "P-%04d,Producto,750%04d\n", i, i)
	}
	sink := &recordingSink{}
	uc := newProductImportUC(sink)

	report, err := uc.ImportProducts(context.Background(), "comp-1", "user-1",
		[]byte(sb.String()), tabular.Hint{}, nil)

	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0].Message, "501")
	assert.Empty(t, sink.products)
}

// El tope de filas viene de configuración (IMPORT_MAX_ROWS), no es un número
// cableado: un límite de 2 rechaza un archivo de 3 filas válidas.
func TestImportProducts_MaxFilasConfigurable(t *testing.T) {
	csv := "codigo,nombre,barcode\n" +
		"P-001,Teclado,750001\n" +
		"P-002,Mouse,750002\n" +
		"P-003,Monitor,750003\n"
	sink := &recordingSink{}
	uc := newProductImportUCWithLimits(sink, importer.Limits{MaxRows: 2})

	report, err := uc.ImportProducts(context.Background(), "comp-1", "user-1",
		[]byte(csv), tabular.Hint{}, nil)

	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0].Message, "máximo por importación es 2")
	assert.Empty(t, sink.products)
}

// Las filas de los issues se numeran con la línea real de la hoja: una fila
// descartada en la ingesta (columnas de más) no corre la numeración de los
// issues de validación posteriores.
func TestImportProducts_NumeracionDeFilasEstable(t *testing.T) {
	csv := "codigo,nombre,barcode\n" + // línea 1
		"P-001,Teclado,750001,EXTRA\n" + // línea 2: columnas de más, descartada
		"P-002,,750002\n" // línea 3: sin nombre
	uc := newProductImportUC(&recordingSink{})

	report, err := uc.ImportProducts(context.Background(), "comp-1", "user-1",
		[]byte(csv), tabular.Hint{}, nil)

	require.NoError(t, err)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, 2, report.Issues[0].Row, "la fila descartada reporta su línea")
	assert.Equal(t, 3, report.Issues[1].Row, "la fila sin nombre conserva su línea de hoja")
	assert.Equal(t, importing.FieldName, report.Issues[1].Field)
}
