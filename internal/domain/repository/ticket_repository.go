package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
)

// HeaderChanges diff de cabecera en modo edición: solo los campos que
// realmente cambiaron respecto al original. Punteros nil = sin cambio.
type HeaderChanges struct {
	Date         *time.Time
	Week         *int
	Year         *int
	DriverCode   *string
	DriverName   *string
	VehicleCode  *string
	VehiclePlate *string
}

// Empty indica que no hay ningún cambio de cabecera.
func (h HeaderChanges) Empty() bool {
	return h.Date == nil && h.Week == nil && h.Year == nil &&
		h.DriverCode == nil && h.DriverName == nil &&
		h.VehicleCode == nil && h.VehiclePlate == nil
}

// LineAdjustment ajuste de cantidad de una línea de asignación.
// Original es nil cuando la línea se agregó en esta sesión de edición.
type LineAdjustment struct {
	Code     string
	Original *decimal.Decimal
	New      decimal.Decimal
}

// AllocationLine registro persistido de una línea de asignación, usado
// para sembrar el snapshot en modo edición. WarehouseStock lo mantiene
// el sistema externo de bodega.
type AllocationLine struct {
	TicketNumber   string
	TicketType     string
	ItemCode       string
	Description    string
	Quantity       decimal.Decimal
	WarehouseStock decimal.Decimal
	Unit           string
	GroupCode      string
	FamilyCode     string
}

// MovementLine registro de trazabilidad por artículo, distinto de la
// línea de asignación. Se escribe solo en la creación del tiquete.
type MovementLine struct {
	TransactionID string
	TicketNumber  string
	TicketType    string
	ItemCode      string
	Quantity      decimal.Decimal
	Date          time.Time
	Week          int
	Year          int
}

// TicketRepository acceso al servicio remoto de persistencia de
// tiquetes: tres colecciones lógicas (cabecera, líneas de asignación,
// líneas de movimiento). No hay transacción entre colecciones; el orden
// de escritura y la política de fallo parcial los gobierna el asistente.
type TicketRepository interface {
	// Exists verifica si ya existe un tiquete (number, type).
	// Devuelve también la cabecera cuando existe.
	Exists(ctx context.Context, number, ticketType string) (bool, *entity.Ticket, error)

	// AllocationLines devuelve las líneas de asignación del tiquete
	// (coincidencia exacta de número, tipo insensible a mayúsculas).
	AllocationLines(ctx context.Context, number, ticketType string) ([]AllocationLine, error)

	// CreateHeader inserta la cabecera del tiquete.
	CreateHeader(ctx context.Context, t *entity.Ticket) error
	// CreateMovementLines inserta las líneas de movimiento.
	CreateMovementLines(ctx context.Context, lines []MovementLine) error
	// CreateAllocationLines inserta las líneas de asignación.
	CreateAllocationLines(ctx context.Context, lines []AllocationLine) error

	// UpdateHeader aplica un diff de cabecera; devuelve filas afectadas.
	UpdateHeader(ctx context.Context, number, ticketType string, changes HeaderChanges) (int64, error)
	// ApplyAllocationAdjustments aplica ajustes de cantidad; devuelve
	// filas afectadas.
	ApplyAllocationAdjustments(ctx context.Context, number, ticketType string, adjs []LineAdjustment) (int64, error)

	// DeleteAllocationLine borra una línea de asignación. Devuelve
	// domain.ErrNotFound si no existe y domain.ErrLockConflict si el
	// stock registrado externamente ya no coincide con la cantidad.
	DeleteAllocationLine(ctx context.Context, number, itemCode, ticketType string) error
}
