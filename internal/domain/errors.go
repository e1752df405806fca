package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Ninguno de estos errores termina la sesión del asistente: todos se
// traducen en mensajes transitorios para el usuario.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrBusinessRule      = errors.New("regla de negocio incumplida")
	ErrDuplicate         = errors.New("ya existe un tiquete con ese número y tipo")
	ErrLockConflict      = errors.New("la línea tiene movimientos registrados")
	ErrConnectivity      = errors.New("error de comunicación con el servicio")
	ErrStepLocked        = errors.New("el paso aún no está habilitado")
	ErrItemAlreadyAdded  = errors.New("el artículo ya fue agregado")
	ErrOperationInFlight = errors.New("hay una operación en curso")
	ErrUnsavedChanges    = errors.New("hay cambios sin guardar")
	ErrTicketImmutable   = errors.New("número y tipo no se pueden modificar en edición")
	ErrSessionNotFound   = errors.New("sesión de trabajo no encontrada")
	ErrUnauthorized      = errors.New("no autorizado")
)
