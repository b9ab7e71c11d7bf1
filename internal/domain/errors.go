package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrUnavailable clasifica fallas transitorias del sink de persistencia
	// (red caída, servicio no disponible). El Batch Submitter reintenta solo
	// cuando errors.Is(err, ErrUnavailable).
	ErrUnavailable = errors.New("servicio no disponible")

	// Errores de ingesta de archivos tabulares.
	ErrUnsupportedFormat = errors.New("formato de archivo no soportado")
	ErrEmptyHeader       = errors.New("fila de encabezados vacía")
	ErrSheetNotFound     = errors.New("hoja no encontrada en el libro")
	ErrFileTooLarge      = errors.New("archivo excede el tamaño máximo")
)
