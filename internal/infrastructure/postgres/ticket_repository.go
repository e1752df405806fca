package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/tickets-pro/internal/domain"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
	"github.com/tu-usuario/tickets-pro/internal/domain/repository"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo implementación de TicketRepository sobre PostgreSQL.
// Tres colecciones: tickets (cabecera), allocation_lines y
// movement_lines. Cada escritura es una operación independiente; la
// política de orden y de fallo parcial la gobierna el asistente.
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

// Exists verifica si ya existe un tiquete (number, type) y devuelve la
// cabecera cuando existe. El tipo se compara sin distinguir mayúsculas.
func (r *TicketRepo) Exists(ctx context.Context, number, ticketType string) (bool, *entity.Ticket, error) {
	query := `
		SELECT number, type, date, week, year,
		       driver_code, driver_name, vehicle_code, vehicle_plate,
		       client_code, client_name, status
		FROM tickets
		WHERE number = $1 AND lower(type) = lower($2)`
	var t entity.Ticket
	err := r.q.QueryRow(ctx, query, number, ticketType).Scan(
		&t.Number, &t.Type, &t.Date, &t.Week, &t.Year,
		&t.DriverCode, &t.DriverName, &t.VehicleCode, &t.VehiclePlate,
		&t.ClientCode, &t.ClientName, &t.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("exists ticket: %w", err)
	}
	return true, &t, nil
}

// AllocationLines devuelve las líneas de asignación del tiquete.
func (r *TicketRepo) AllocationLines(ctx context.Context, number, ticketType string) ([]repository.AllocationLine, error) {
	query := `
		SELECT ticket_number, ticket_type, item_code, description,
		       quantity, warehouse_stock, unit, group_code, family_code
		FROM allocation_lines
		WHERE ticket_number = $1 AND lower(ticket_type) = lower($2)
		ORDER BY item_code`
	rows, err := r.q.Query(ctx, query, number, ticketType)
	if err != nil {
		return nil, fmt.Errorf("allocation lines: %w", err)
	}
	defer rows.Close()

	var out []repository.AllocationLine
	for rows.Next() {
		var l repository.AllocationLine
		if err := rows.Scan(&l.TicketNumber, &l.TicketType, &l.ItemCode, &l.Description,
			&l.Quantity, &l.WarehouseStock, &l.Unit, &l.GroupCode, &l.FamilyCode); err != nil {
			return nil, fmt.Errorf("scan allocation line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateHeader inserta la cabecera. Una violación del único
// (number, type) se traduce en domain.ErrDuplicate.
func (r *TicketRepo) CreateHeader(ctx context.Context, t *entity.Ticket) error {
	query := `
		INSERT INTO tickets (number, type, date, week, year,
			driver_code, driver_name, vehicle_code, vehicle_plate,
			client_code, client_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())`
	_, err := r.q.Exec(ctx, query,
		t.Number, t.Type, t.Date, t.Week, t.Year,
		t.DriverCode, t.DriverName, t.VehicleCode, t.VehiclePlate,
		t.ClientCode, t.ClientName, t.Status,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create header: %w", err)
	}
	return nil
}

// CreateMovementLines inserta las líneas de movimiento (trazabilidad).
// El lote completo entra en una transacción: o todas o ninguna.
func (r *TicketRepo) CreateMovementLines(ctx context.Context, lines []repository.MovementLine) error {
	query := `
		INSERT INTO movement_lines (transaction_id, ticket_number, ticket_type,
			item_code, quantity, date, week, year, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`
	return withTx(ctx, r.q, func(q Querier) error {
		for _, l := range lines {
			if _, err := q.Exec(ctx, query,
				l.TransactionID, l.TicketNumber, l.TicketType,
				l.ItemCode, l.Quantity, l.Date, l.Week, l.Year,
			); err != nil {
				return fmt.Errorf("create movement line %s: %w", l.ItemCode, err)
			}
		}
		return nil
	})
}

// CreateAllocationLines inserta las líneas de asignación. El stock de
// bodega nace igual a la cantidad entrada. El lote es todo-o-nada.
func (r *TicketRepo) CreateAllocationLines(ctx context.Context, lines []repository.AllocationLine) error {
	query := `
		INSERT INTO allocation_lines (ticket_number, ticket_type, item_code,
			description, quantity, warehouse_stock, unit, group_code, family_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`
	return withTx(ctx, r.q, func(q Querier) error {
		for _, l := range lines {
			if _, err := q.Exec(ctx, query,
				l.TicketNumber, l.TicketType, l.ItemCode,
				l.Description, l.Quantity, l.WarehouseStock, l.Unit, l.GroupCode, l.FamilyCode,
			); err != nil {
				return fmt.Errorf("create allocation line %s: %w", l.ItemCode, err)
			}
		}
		return nil
	})
}

// UpdateHeader aplica el diff de cabecera: solo los campos no nil.
// Devuelve las filas afectadas.
func (r *TicketRepo) UpdateHeader(ctx context.Context, number, ticketType string, ch repository.HeaderChanges) (int64, error) {
	var sets []string
	var args []any
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if ch.Date != nil {
		add("date", *ch.Date)
	}
	if ch.Week != nil {
		add("week", *ch.Week)
	}
	if ch.Year != nil {
		add("year", *ch.Year)
	}
	if ch.DriverCode != nil {
		add("driver_code", *ch.DriverCode)
	}
	if ch.DriverName != nil {
		add("driver_name", *ch.DriverName)
	}
	if ch.VehicleCode != nil {
		add("vehicle_code", *ch.VehicleCode)
	}
	if ch.VehiclePlate != nil {
		add("vehicle_plate", *ch.VehiclePlate)
	}
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, number)
	numArg := len(args)
	args = append(args, ticketType)
	typeArg := len(args)

	query := fmt.Sprintf(`UPDATE tickets SET %s, updated_at = now() WHERE number = $%d AND lower(type) = lower($%d)`,
		strings.Join(sets, ", "), numArg, typeArg)
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update header: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ApplyAllocationAdjustments aplica ajustes de cantidad línea por
// línea. Un ajuste con original nil inserta la línea (agregada en la
// sesión de edición); con original presente actualiza la cantidad con
// chequeo optimista contra el valor original y mueve el stock de bodega
// por el delta. Devuelve el total de filas afectadas.
func (r *TicketRepo) ApplyAllocationAdjustments(ctx context.Context, number, ticketType string, adjs []repository.LineAdjustment) (int64, error) {
	var affected int64
	for _, a := range adjs {
		if a.Original == nil {
			query := `
				INSERT INTO allocation_lines (ticket_number, ticket_type, item_code,
					quantity, warehouse_stock, created_at)
				VALUES ($1, $2, $3, $4, $4, now())
				ON CONFLICT (ticket_number, ticket_type, item_code) DO NOTHING`
			tag, err := r.q.Exec(ctx, query, number, ticketType, a.Code, a.New)
			if err != nil {
				return affected, fmt.Errorf("insert adjustment %s: %w", a.Code, err)
			}
			affected += tag.RowsAffected()
			continue
		}
		query := `
			UPDATE allocation_lines
			SET quantity = $4,
			    warehouse_stock = warehouse_stock + ($4 - $5),
			    updated_at = now()
			WHERE ticket_number = $1 AND lower(ticket_type) = lower($2)
			  AND item_code = $3 AND quantity = $5`
		tag, err := r.q.Exec(ctx, query, number, ticketType, a.Code, a.New, *a.Original)
		if err != nil {
			return affected, fmt.Errorf("update adjustment %s: %w", a.Code, err)
		}
		affected += tag.RowsAffected()
	}
	return affected, nil
}

// DeleteAllocationLine borra la línea solo si el stock registrado
// externamente sigue igual a la cantidad entrada. Si la fila existe
// pero el stock difiere, conflicto de bloqueo; si no existe, not found.
func (r *TicketRepo) DeleteAllocationLine(ctx context.Context, number, itemCode, ticketType string) error {
	del := `
		DELETE FROM allocation_lines
		WHERE ticket_number = $1 AND item_code = $2 AND lower(ticket_type) = lower($3)
		  AND warehouse_stock = quantity`
	tag, err := r.q.Exec(ctx, del, number, itemCode, ticketType)
	if err != nil {
		return fmt.Errorf("delete allocation line: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nada borrado: distinguir inexistente de bloqueada.
	var exists bool
	check := `
		SELECT true FROM allocation_lines
		WHERE ticket_number = $1 AND item_code = $2 AND lower(ticket_type) = lower($3)`
	err = r.q.QueryRow(ctx, check, number, itemCode, ticketType).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("check allocation line: %w", err)
	}
	return domain.ErrLockConflict
}
