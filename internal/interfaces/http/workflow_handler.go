package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tickets-pro/internal/application/dto"
	"github.com/tu-usuario/tickets-pro/internal/application/workflow"
)

// validate instancia compartida para los tags `validate` de los DTOs.
var validate = validator.New()

// WorkflowHandler maneja las peticiones HTTP del asistente de tiquetes
// (protegido).
type WorkflowHandler struct {
	ctrl *workflow.Controller
}

// NewWorkflowHandler construye el handler.
func NewWorkflowHandler(ctrl *workflow.Controller) *WorkflowHandler {
	return &WorkflowHandler{ctrl: ctrl}
}

// OpenSession godoc
// @Summary      Abrir sesión del asistente de tiquetes
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenSessionRequest  true  "mode (create|edit); number y type en edit"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions [post]
func (h *WorkflowHandler) OpenSession(c *fiber.Ctx) error {
	var in dto.OpenSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	st, err := h.ctrl.Open(c.Context(), workflow.Mode(in.Mode), in.Number, in.Type)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSessionResponse(st))
}

// GetSession godoc
// @Summary      Estado de la sesión
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id} [get]
func (h *WorkflowHandler) GetSession(c *fiber.Ctx) error {
	st, err := h.ctrl.State(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSessionResponse(st))
}

// CloseSession godoc
// @Summary      Cerrar la sesión descartando el estado de trabajo
// @Description  Con cambios sin guardar se exige confirm=true.
// @Tags         workflow
// @Security     Bearer
// @Param        id       path   string  true   "ID de sesión"
// @Param        confirm  query  bool    false  "confirmar descarte de cambios"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id} [delete]
func (h *WorkflowHandler) CloseSession(c *fiber.Ctx) error {
	confirm := c.QueryBool("confirm", false)
	if err := h.ctrl.Close(c.Params("id"), confirm); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activate godoc
// @Summary      Activar un paso ya habilitado
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de sesión"
// @Param        body  body  dto.ActivateRequest  true  "paso a activar"
// @Success      200   {object}  dto.SessionResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/activate [post]
func (h *WorkflowHandler) Activate(c *fiber.Ctx) error {
	var in dto.ActivateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	st, err := h.ctrl.Activate(c.Params("id"), workflow.Step(in.Step))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSessionResponse(st))
}

// Advance godoc
// @Summary      Validar el paso de origen y avanzar al siguiente
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de sesión"
// @Param        body  body  dto.AdvanceRequest  true  "paso de origen y su payload"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/advance [post]
func (h *WorkflowHandler) Advance(c *fiber.Ctx) error {
	var in dto.AdvanceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	st, err := h.ctrl.Advance(c.Context(), c.Params("id"), workflow.Step(in.From), in.Payload())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewSessionResponse(st))
}

// StepData godoc
// @Summary      Datos de referencia del paso
// @Description  Una respuesta que llega después de navegar a otro paso
//
//	vuelve marcada stale y no se aplica.
//
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de sesión"
// @Param        step    query  string  true   "paso"
// @Param        search  query  string  false  "filtro de clientes"
// @Success      200  {object}  dto.StepDataResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/step-data [get]
func (h *WorkflowHandler) StepData(c *fiber.Ctx) error {
	data, err := h.ctrl.FetchStepData(c.Context(), c.Params("id"), workflow.Step(c.Query("step")), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewStepDataResponse(data))
}

// AddItem godoc
// @Summary      Agregar un artículo al tiquete
// @Description  Idempotente: un código ya presente devuelve el aviso
//
//	"ya agregado" sin duplicar la línea.
//
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de sesión"
// @Param        body  body  dto.AddItemRequest  true  "código del artículo"
// @Success      200   {object}  dto.AddItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/items [post]
func (h *WorkflowHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	res, err := h.ctrl.AddItem(c.Context(), c.Params("id"), in.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AddItemResponse{Added: res.Added, Notice: res.Notice})
}

// SetQuantity godoc
// @Summary      Registrar la cantidad tecleada de una línea
// @Description  Normaliza coma→punto y trunca a 8 enteros y 2 decimales.
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de sesión"
// @Param        code  path  string                  true  "código del artículo"
// @Param        body  body  dto.SetQuantityRequest  true  "texto tecleado"
// @Success      200   {object}  dto.QuantityResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/items/{code}/quantity [put]
func (h *WorkflowHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	code := c.Params("code")
	norm, err := h.ctrl.SetQuantity(c.Params("id"), code, in.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.QuantityResponse{Code: code, Value: norm})
}

// RemoveLine godoc
// @Summary      Quitar una línea del tiquete
// @Description  En edición el borrado se pide primero al servicio, que
//
//	responde 409 si la línea quedó bloqueada por movimientos.
//
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Param        id    path  string  true  "ID de sesión"
// @Param        code  path  string  true  "código del artículo"
// @Success      200   {object}  dto.DeleteLineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/items/{code} [delete]
func (h *WorkflowHandler) RemoveLine(c *fiber.Ctx) error {
	res, err := h.ctrl.RemoveLine(c.Context(), c.Params("id"), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DeleteLineResponse{Removed: res.Removed, Warning: res.Warning})
}

// GetChangeset godoc
// @Summary      Diff pendiente de aplicar (modo edición)
// @Description  Derivado del baseline y el estado de trabajo; el
//
//	resumen lo muestra antes de aplicar. Vacío en creación.
//
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.ChangesetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/changeset [get]
func (h *WorkflowHandler) GetChangeset(c *fiber.Ctx) error {
	ch, err := h.ctrl.Changeset(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewChangesetResponse(ch))
}

// Commit godoc
// @Summary      Confirmar el tiquete (modo creación)
// @Description  Orden fijo: cabecera, líneas de movimiento, líneas de
//
//	asignación. Fallo parcial = guardado con advertencias.
//
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      201  {object}  dto.CommitResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/commit [post]
func (h *WorkflowHandler) Commit(c *fiber.Ctx) error {
	res, err := h.ctrl.Commit(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CommitResponse{Created: res.Created, Warnings: res.Warnings})
}

// Apply godoc
// @Summary      Aplicar ajustes (modo edición)
// @Description  Sin cambios responde "no hay cambios para aplicar" y no
//
//	hace llamadas de red (reaplicar es no-op).
//
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de sesión"
// @Success      200  {object}  dto.ApplyResponse
// @Failure      423  {object}  dto.ErrorResponse
// @Router       /api/workflow/sessions/{id}/apply [post]
func (h *WorkflowHandler) Apply(c *fiber.Ctx) error {
	res, err := h.ctrl.ApplyAdjustments(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ApplyResponse{
		Applied:        res.Applied,
		Message:        res.Message,
		Warnings:       res.Warnings,
		LinesAffected:  res.LinesAffected,
		HeaderAffected: res.HeaderAffected,
	})
}
