package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/tu-usuario/tickets-pro/internal/domain"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
	"github.com/tu-usuario/tickets-pro/internal/domain/repository"
)

// SnapshotLoader carga el estado persistido de un tiquete al entrar en
// modo edición: cabecera más líneas de asignación. El resultado es el
// baseline, inmutable después de creado; solo existe para el diff y se
// descarta al cerrar el asistente.
type SnapshotLoader struct {
	tickets repository.TicketRepository
}

// NewSnapshotLoader construye el cargador.
func NewSnapshotLoader(tickets repository.TicketRepository) *SnapshotLoader {
	return &SnapshotLoader{tickets: tickets}
}

// Load trae cabecera y líneas del tiquete. Las líneas se filtran del
// lado del cliente por número exacto y tipo insensible a mayúsculas.
// Cada línea conserva su Original (cantidad y stock de bodega al
// momento de la carga), del que se deriva el predicado de bloqueo.
func (l *SnapshotLoader) Load(ctx context.Context, number, ticketType string) (*entity.Ticket, error) {
	exists, header, err := l.tickets.Exists(ctx, number, ticketType)
	if err != nil {
		return nil, fmt.Errorf("cargar cabecera: %w", err)
	}
	if !exists || header == nil {
		return nil, domain.ErrNotFound
	}

	rows, err := l.tickets.AllocationLines(ctx, number, ticketType)
	if err != nil {
		return nil, fmt.Errorf("cargar líneas: %w", err)
	}

	base := header.Clone()
	base.Lines = base.Lines[:0]
	for _, row := range rows {
		if row.TicketNumber != number || !strings.EqualFold(row.TicketType, ticketType) {
			continue
		}
		base.Lines = append(base.Lines, entity.ItemLine{
			Code:        row.ItemCode,
			Description: row.Description,
			Quantity:    row.Quantity,
			Unit:        row.Unit,
			GroupCode:   row.GroupCode,
			FamilyCode:  row.FamilyCode,
			Original: &entity.OriginalLine{
				Quantity:       row.Quantity,
				WarehouseStock: row.WarehouseStock,
			},
		})
	}
	return base, nil
}
