package http

import (
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/application/importer"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/tabular"
)

// ImportHandler maneja las cargas masivas de archivos (XLSX/CSV).
type ImportHandler struct {
	products  *importer.ProductImportUseCase
	movements *importer.MovementImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(products *importer.ProductImportUseCase, movements *importer.MovementImportUseCase) *ImportHandler {
	return &ImportHandler{products: products, movements: movements}
}

// ImportProducts godoc
// @Summary      Importar productos desde archivo XLSX o CSV
// @Description  El encabezado se mapea por alias (ES/EN, sin distinguir mayúsculas ni tildes). Si alguna fila falla, NO se inserta nada y se devuelve la lista completa de issues.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true   "Archivo XLSX o CSV"
// @Param        sheet  formData  string  false  "Nombre de la hoja (XLSX); vacío usa la primera"
// @Success      200    {object}  dto.ImportReport
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      413    {object}  dto.ErrorResponse
// @Failure      422    {object}  dto.ImportReport
// @Router       /api/imports/products [post]
func (h *ImportHandler) ImportProducts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	data, filename, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	hint := tabular.Hint{Filename: filename, Sheet: c.FormValue("sheet")}
	report, err := h.products.ImportProducts(c.UserContext(), companyID, GetUserID(c), data, hint, nil)
	if err != nil {
		return respondError(c, err)
	}
	if !report.Submittable() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(report)
	}
	return c.JSON(report)
}

// ImportMovement godoc
// @Summary      Importar líneas de un movimiento desde archivo XLSX o CSV
// @Description  El campo request trae el JSON con tipo, bodegas, producto y el enlace explícito de columnas (binding). Todo el movimiento entra en una transacción o no entra.
// @Tags         imports
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true  "Archivo XLSX o CSV"
// @Param        request  formData  string  true  "JSON dto.MovementImportRequest"
// @Success      201      {object}  dto.MovementResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      413      {object}  dto.ErrorResponse
// @Failure      422      {object}  dto.ImportReport
// @Router       /api/imports/movements [post]
func (h *ImportHandler) ImportMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	raw := c.FormValue("request")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_REQUEST", Message: "campo request (JSON) requerido"})
	}
	var req dto.MovementImportRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_REQUEST", Message: "request no es JSON válido"})
	}
	data, _, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	movement, report, err := h.movements.ImportMovement(c.UserContext(), companyID, GetUserID(c), req, data, nil)
	if err != nil {
		return respondError(c, err)
	}
	if !report.Submittable() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(report)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement, nil))
}

// readUpload lee el archivo del form field "file" completo en memoria.
// El tope duro de tamaño lo aplica el caso de uso.
func readUpload(c *fiber.Ctx) ([]byte, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "campo file requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer func(f multipart.File) { _ = f.Close() }(f)
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Filename, nil
}
