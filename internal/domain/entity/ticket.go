package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del tiquete.
const (
	TicketStatusActive = "ACTIVO"
	TicketStatusClosed = "CERRADO"
)

// Ticket es el documento de negocio ("tiquete") que arma el asistente.
// Se identifica por el par (Number, Type), único en conjunto; una vez
// persistido, Number y Type son inmutables.
type Ticket struct {
	Number       string
	Type         string
	Date         time.Time // granularidad de día
	Week         int       // semana ISO-8601 derivada de Date
	Year         int       // año-semana ISO-8601 derivado de Date
	DriverCode   string
	DriverName   string
	VehicleCode  string
	VehiclePlate string
	ClientCode   string
	ClientName   string
	Status       string
	Lines        []ItemLine
}

// FindLine devuelve la línea con ese código de artículo, o nil.
func (t *Ticket) FindLine(code string) *ItemLine {
	for i := range t.Lines {
		if t.Lines[i].Code == code {
			return &t.Lines[i]
		}
	}
	return nil
}

// HasLine indica si el artículo ya está en el tiquete.
func (t *Ticket) HasLine(code string) bool {
	return t.FindLine(code) != nil
}

// RemoveLine quita la línea con ese código preservando el orden del resto.
// Devuelve false si el código no existe.
func (t *Ticket) RemoveLine(code string) bool {
	for i := range t.Lines {
		if t.Lines[i].Code == code {
			t.Lines = append(t.Lines[:i], t.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// Clone devuelve una copia profunda del tiquete (las líneas se copian).
// Se usa para congelar el baseline al entrar en modo edición.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	c := *t
	c.Lines = make([]ItemLine, len(t.Lines))
	copy(c.Lines, t.Lines)
	for i := range c.Lines {
		if t.Lines[i].Original != nil {
			orig := *t.Lines[i].Original
			c.Lines[i].Original = &orig
		}
	}
	return &c
}

// ItemLine es la línea de asignación de un artículo dentro del tiquete.
// Code es único dentro del tiquete.
type ItemLine struct {
	Code        string
	Description string
	Quantity    decimal.Decimal
	Unit        string // etiqueta libre, opcional
	GroupCode   string
	FamilyCode  string

	// Original solo existe en modo edición: valores al cargar el snapshot.
	Original *OriginalLine
}

// OriginalLine guarda los valores persistidos de la línea al momento de
// entrar en edición. WarehouseStock lo mantiene el sistema externo.
type OriginalLine struct {
	Quantity       decimal.Decimal
	WarehouseStock decimal.Decimal
}

// Locked indica si la línea quedó bloqueada: el stock registrado
// externamente ya no coincide con la cantidad original, señal de que
// sistemas posteriores consumieron o alteraron la línea. Una línea
// bloqueada es de solo lectura y no se puede borrar sin conciliación.
func (l *ItemLine) Locked() bool {
	return l.Original != nil && !l.Original.WarehouseStock.Equal(l.Original.Quantity)
}
