package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Movimientos-api/internal/application/dto"
	"github.com/jhoicas/Movimientos-api/internal/application/movements"
	"github.com/jhoicas/Movimientos-api/internal/domain/entity"
	"github.com/jhoicas/Movimientos-api/internal/domain/reconciliation"
)

// MovementHandler maneja las peticiones HTTP para movimientos (protegido).
type MovementHandler struct {
	uc *movements.UseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *movements.UseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Create godoc
// @Summary      Crear despacho o traslado
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Datos del movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, err := h.uc.Create(c.UserContext(), companyID, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(movement, nil))
}

// GetByID godoc
// @Summary      Obtener movimiento con estados de conciliación por línea
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	movement, statuses, err := h.uc.GetByID(c.UserContext(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponse(movement, statuses))
}

// List godoc
// @Summary      Listar movimientos de la empresa
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	page := pageParams(c)
	list, err := h.uc.List(c.UserContext(), companyID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementSummaryResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, dto.MovementSummaryResponse{
			ID:                     m.ID,
			Type:                   m.Type,
			SourceWarehouseID:      m.SourceWarehouseID,
			DestinationWarehouseID: m.DestinationWarehouseID,
			DriverName:             m.DriverName,
			VehicleID:              m.VehicleID,
			CompleteStatus:         m.CompleteStatus,
			LineCount:              len(m.Lines),
			CreatedAt:              m.CreatedAt,
			UpdatedAt:              m.UpdatedAt,
		})
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Registrar recepción y conciliar contra lo despachado
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.ReceiveMovementRequest  true  "Líneas recibidas"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/receipt [post]
func (h *MovementHandler) Receive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReceiveMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movement, statuses, _, err := h.uc.Receive(c.UserContext(), companyID, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponse(movement, statuses))
}

// Manifest godoc
// @Summary      Descargar el manifiesto de despacho en PDF
// @Tags         movements
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/manifest [get]
func (h *MovementHandler) Manifest(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdf, err := h.uc.Manifest(c.UserContext(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="manifiesto-`+id+`.pdf"`)
	return c.Send(pdf)
}

// pageParams extrae limit/offset con sus topes.
func pageParams(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", dto.DefaultLimit),
		Offset: c.QueryInt("offset", 0),
	}
	page.DefaultPage()
	return page
}

// toMovementResponse convierte la entidad a DTO; statuses puede ser nil
// (líneas sin estado calculado quedan como NOT_RECEIVED).
func toMovementResponse(m *entity.Movement, statuses map[string]reconciliation.LineStatus) dto.MovementResponse {
	out := dto.MovementResponse{
		ID:                     m.ID,
		Type:                   m.Type,
		SourceWarehouseID:      m.SourceWarehouseID,
		DestinationWarehouseID: m.DestinationWarehouseID,
		DriverName:             m.DriverName,
		VehicleID:              m.VehicleID,
		CompleteStatus:         m.CompleteStatus,
		Lines:                  make([]dto.MovementLineResponse, 0, len(m.Lines)),
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
	for _, l := range m.Lines {
		line := dto.MovementLineResponse{
			ID:                 l.ID,
			ProductID:          l.ProductID,
			QuantitySent:       l.QuantitySent,
			QuantityReceived:   l.QuantityReceived,
			BatchNumber:        l.BatchNumber,
			ContainerNumber:    l.ContainerNumber,
			BillOfLadingNumber: l.BillOfLadingNumber,
			Status:             string(reconciliation.LineNotReceived),
		}
		if st, ok := statuses[l.ID]; ok {
			line.Status = string(st)
		}
		for _, sn := range l.SerialNumbersSent {
			line.SerialNumbersSent = append(line.SerialNumbersSent, sn.Value)
		}
		for _, sn := range l.SerialNumbersReceived {
			line.SerialNumbersReceived = append(line.SerialNumbersReceived, sn.Value)
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}
