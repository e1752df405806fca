package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tickets-pro/internal/application/dto"
	"github.com/tu-usuario/tickets-pro/internal/application/workflow"
	"github.com/tu-usuario/tickets-pro/internal/domain"
)

// respondError traduce la taxonomía de errores del asistente a HTTP:
// 400 validación (con pista de foco), 404 no encontrado, 409 duplicado
// o conflicto de bloqueo, 422 regla de negocio, 423 paso bloqueado o
// operación en vuelo, 502 conectividad. Ninguno termina la sesión.
func respondError(c *fiber.Ctx, err error) error {
	var verr *workflow.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: verr.Message, Focus: verr.Field,
		})
	}
	var berr *workflow.BusinessRuleError
	if errors.As(err, &berr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: berr.Code, Message: berr.Message,
		})
	}
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SESSION_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrLockConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOCKED", Message: err.Error()})
	case errors.Is(err, domain.ErrTicketImmutable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IMMUTABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrBusinessRule):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "BUSINESS_RULE", Message: err.Error()})
	case errors.Is(err, domain.ErrStepLocked):
		return c.Status(fiber.StatusLocked).JSON(dto.ErrorResponse{Code: "STEP_LOCKED", Message: err.Error()})
	case errors.Is(err, domain.ErrOperationInFlight):
		return c.Status(fiber.StatusLocked).JSON(dto.ErrorResponse{Code: "IN_FLIGHT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnsavedChanges):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "UNSAVED_CHANGES", Message: err.Error()})
	case errors.Is(err, domain.ErrItemAlreadyAdded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_ADDED", Message: err.Error()})
	case errors.Is(err, domain.ErrConnectivity):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "CONNECTIVITY", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
