package workflow

import (
	"strings"
	"time"

	"github.com/tu-usuario/tickets-pro/internal/domain"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
	"github.com/tu-usuario/tickets-pro/internal/domain/ticket"
)

// Reglas de validación por paso: predicados puros, sin estado. Una
// validación fallida deja el paso activo sin cambios; el campo del
// error sirve también como pista de foco para la interfaz.

// ValidationError error de validación de un paso. Field indica el
// control que debería recibir el foco.
type ValidationError struct {
	Step    Step
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrValidation).
func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

// BusinessRuleError regla de negocio incumplida: bloquea la transición
// con un mensaje distinto al de validación genérica.
type BusinessRuleError struct {
	Code    string
	Message string
}

func (e *BusinessRuleError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, domain.ErrBusinessRule).
func (e *BusinessRuleError) Unwrap() error { return domain.ErrBusinessRule }

// NumberAndDatePayload datos del primer paso.
type NumberAndDatePayload struct {
	Number string
	Type   string
	Date   time.Time
}

// TransportPayload datos del paso de transporte. Conductor y vehículo
// deben venir completamente resueltos (código y campo visible).
type TransportPayload struct {
	DriverCode   string
	DriverName   string
	VehicleCode  string
	VehiclePlate string
}

// ClientPayload datos del paso de cliente.
type ClientPayload struct {
	ClientCode string
	ClientName string
}

// validateNumberAndDate exige tipo seleccionado, número no vacío y
// fecha no futura (comparación con granularidad de día).
func validateNumberAndDate(p NumberAndDatePayload, now time.Time) *ValidationError {
	if strings.TrimSpace(p.Type) == "" {
		return &ValidationError{Step: StepNumberAndDate, Field: "type", Message: "seleccione el tipo de documento"}
	}
	if strings.TrimSpace(p.Number) == "" {
		return &ValidationError{Step: StepNumberAndDate, Field: "number", Message: "ingrese el número del tiquete"}
	}
	if p.Date.IsZero() {
		return &ValidationError{Step: StepNumberAndDate, Field: "date", Message: "ingrese la fecha"}
	}
	if ticket.AfterDay(p.Date, now) {
		return &ValidationError{Step: StepNumberAndDate, Field: "date", Message: "la fecha no puede ser futura"}
	}
	return nil
}

// validateTransport exige conductor y vehículo resueltos: código y
// campo de despliegue no vacíos en ambos.
func validateTransport(p TransportPayload) *ValidationError {
	if strings.TrimSpace(p.DriverCode) == "" || strings.TrimSpace(p.DriverName) == "" {
		return &ValidationError{Step: StepTransport, Field: "driver", Message: "seleccione el conductor"}
	}
	if strings.TrimSpace(p.VehicleCode) == "" || strings.TrimSpace(p.VehiclePlate) == "" {
		return &ValidationError{Step: StepTransport, Field: "vehicle", Message: "seleccione el vehículo"}
	}
	return nil
}

// validateClient exige un cliente seleccionado.
func validateClient(p ClientPayload) *ValidationError {
	if strings.TrimSpace(p.ClientCode) == "" || strings.TrimSpace(p.ClientName) == "" {
		return &ValidationError{Step: StepClient, Field: "client", Message: "seleccione el cliente"}
	}
	return nil
}

// validateItemSelection exige al menos un artículo en el conjunto de
// líneas de trabajo.
func validateItemSelection(lines []entity.ItemLine) *ValidationError {
	if len(lines) == 0 {
		return &ValidationError{Step: StepItemSelection, Field: "items", Message: "agregue al menos un artículo"}
	}
	return nil
}

// validateQuantities exige que toda línea no bloqueada tenga una
// cantidad positiva dentro del formato (8,2). Las líneas bloqueadas
// quedan exentas: sus valores vienen prevalidados por construcción.
// El Field del error es el código de la línea ofensora (pista de foco).
func validateQuantities(lines []entity.ItemLine, entries map[string]string) *ValidationError {
	for i := range lines {
		l := &lines[i]
		if l.Locked() {
			continue
		}
		if !ticket.ValidQuantity(entries[l.Code]) {
			return &ValidationError{Step: StepQuantities, Field: l.Code, Message: "cantidad inválida para " + l.Code}
		}
	}
	return nil
}
