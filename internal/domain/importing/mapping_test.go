package importing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Movimientos-api/internal/domain/importing"
)

// ──────────────────────────────────────────────────────────────────────────────
// Resolución automática por alias (esquema fijo de productos)
// ──────────────────────────────────────────────────────────────────────────────

func TestResolveMapping_AliasEnEspanolEIngles(t *testing.T) {
	headers := []string{"Código", "Nombre", "Codigo de Barras", "Serializado"}

	mapping, err := importing.ResolveMapping(headers, importing.ProductAliasTable())
	require.NoError(t, err)

	assert.Equal(t, "Código", mapping[importing.FieldCode])
	assert.Equal(t, "Nombre", mapping[importing.FieldName])
	assert.Equal(t, "Codigo de Barras", mapping[importing.FieldBarcode])
	assert.Equal(t, "Serializado", mapping[importing.FieldSerialized])
}

func TestResolveMapping_IgnoraMayusculasYTildes(t *testing.T) {
	// "CÓDIGO" debe resolver igual que "codigo": la comparación pliega
	// mayúsculas y tildes.
	headers := []string{"CÓDIGO", "NAME", "ean"}

	mapping, err := importing.ResolveMapping(headers, importing.ProductAliasTable())
	require.NoError(t, err)

	assert.Equal(t, "CÓDIGO", mapping[importing.FieldCode])
	assert.Equal(t, "NAME", mapping[importing.FieldName])
	assert.Equal(t, "ean", mapping[importing.FieldBarcode])
}

// Determinismo: mismos encabezados, mismo mapeo, siempre.
func TestResolveMapping_Deterministico(t *testing.T) {
	headers := []string{"sku", "codigo", "descripcion", "name", "barcode"}

	first, err := importing.ResolveMapping(headers, importing.ProductAliasTable())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := importing.ResolveMapping(headers, importing.ProductAliasTable())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// El primer alias de la tabla gana: "code" antes que "codigo" y "sku".
	assert.Equal(t, "codigo", first[importing.FieldCode],
		"sin columna 'code', gana 'codigo' que precede a 'sku' en la tabla")
}

func TestResolveMapping_ReportaTodosLosRequeridosFaltantes(t *testing.T) {
	// Solo hay columna de nombre: code y barcode faltan y deben reportarse
	// JUNTOS, no solo el primero.
	_, err := importing.ResolveMapping([]string{"Nombre", "Serializado"}, importing.ProductAliasTable())
	require.Error(t, err)

	var mapErr *importing.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.ElementsMatch(t, []string{importing.FieldCode, importing.FieldBarcode}, mapErr.Missing)
}

// Una misma columna no puede servir a dos campos: si "codigo" ya fue
// reclamada por code, barcode debe buscar otro alias o quedar faltante.
func TestResolveMapping_ColumnaNoSirveADosCampos(t *testing.T) {
	// "descripcion" es alias de name; sin otra columna, barcode queda sin
	// resolver aunque name sí resolvió.
	_, err := importing.ResolveMapping([]string{"codigo", "descripcion"}, importing.ProductAliasTable())
	require.Error(t, err)

	var mapErr *importing.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, []string{importing.FieldBarcode}, mapErr.Missing)
}

// ──────────────────────────────────────────────────────────────────────────────
// Enlace explícito del operario (cargas de movimientos)
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateBinding_EnlaceValido(t *testing.T) {
	headers := []string{"Serie", "Lote", "Contenedor"}
	binding := importing.ColumnMapping{
		importing.FieldSerialNumber: "Serie",
		importing.FieldBatchNumber:  "Lote",
	}

	err := importing.ValidateBinding(binding, headers, []string{importing.FieldSerialNumber})
	assert.NoError(t, err)
}

func TestValidateBinding_RequeridoSinEnlace(t *testing.T) {
	err := importing.ValidateBinding(importing.ColumnMapping{}, []string{"Serie"}, []string{importing.FieldSerialNumber})
	require.Error(t, err)

	var mapErr *importing.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, []string{importing.FieldSerialNumber}, mapErr.Missing)
}

func TestValidateBinding_ColumnaInexistente(t *testing.T) {
	binding := importing.ColumnMapping{importing.FieldSerialNumber: "Columna Fantasma"}

	err := importing.ValidateBinding(binding, []string{"Serie"}, nil)
	require.Error(t, err)

	var mapErr *importing.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, []string{"Columna Fantasma"}, mapErr.Unknown)
}

func TestValidateBinding_ColumnaReclamadaDosVeces(t *testing.T) {
	binding := importing.ColumnMapping{
		importing.FieldSerialNumber: "Serie",
		importing.FieldBatchNumber:  "Serie",
	}

	err := importing.ValidateBinding(binding, []string{"Serie"}, nil)
	require.Error(t, err)

	var mapErr *importing.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, []string{"Serie"}, mapErr.Conflicts)
}

// Todos los problemas del binding salen en UNA pasada.
func TestValidateBinding_AcumulaTodosLosProblemas(t *testing.T) {
	binding := importing.ColumnMapping{
		importing.FieldBatchNumber:     "Serie",
		importing.FieldContainerNumber: "Serie",
		importing.FieldBillOfLading:    "No Existe",
	}

	err := importing.ValidateBinding(binding, []string{"Serie"}, []string{importing.FieldSerialNumber})
	require.Error(t, err)

	var mapErr *importing.MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, []string{importing.FieldSerialNumber}, mapErr.Missing)
	assert.Equal(t, []string{"Serie"}, mapErr.Conflicts)
	assert.Equal(t, []string{"No Existe"}, mapErr.Unknown)
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"  Código  ":       "codigo",
		"CODIGO DE BARRAS": "codigo de barras",
		"Número   Serie":   "numero serie",
		"ean":              "ean",
	}
	for in, want := range cases {
		assert.Equal(t, want, importing.NormalizeHeader(in), "entrada %q", in)
	}
}
