package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tickets-pro/internal/domain"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
	"github.com/tu-usuario/tickets-pro/internal/domain/repository"
	"github.com/tu-usuario/tickets-pro/internal/domain/ticket"
	"github.com/tu-usuario/tickets-pro/pkg/logger"
)

// Controller controlador del asistente de tiquetes: es dueño del orden
// de pasos, del conjunto monótono de pasos habilitados y del paso
// activo, y despacha validación, transición y confirmación. Todo evento
// de una sesión se serializa con el mutex de la sesión.
type Controller struct {
	catalog  repository.CatalogGateway
	tickets  repository.TicketRepository
	loader   *SnapshotLoader
	sessions *SessionStore
	log      *logger.Logger

	// now inyectable para las pruebas de "fecha no futura".
	now func() time.Time
}

// NewController construye el controlador.
func NewController(catalog repository.CatalogGateway, tickets repository.TicketRepository, log *logger.Logger) *Controller {
	return &Controller{
		catalog:  catalog,
		tickets:  tickets,
		loader:   NewSnapshotLoader(tickets),
		sessions: NewSessionStore(),
		log:      log,
		now:      time.Now,
	}
}

// SessionState vista del estado de una sesión para la capa HTTP.
type SessionState struct {
	ID           string
	Mode         Mode
	Active       Step
	Unlocked     []Step
	Draft        *entity.Ticket
	Entries      map[string]string
	ClientLocked bool
	Dirty        bool
}

// AdvancePayload datos del paso de origen en una transición. Solo se
// usa el bloque correspondiente al paso indicado.
type AdvancePayload struct {
	NumberAndDate *NumberAndDatePayload
	Transport     *TransportPayload
	Client        *ClientPayload
}

// StepData datos de referencia del paso activo. Stale marca respuestas
// que llegaron después de que el usuario navegó a otro paso: no deben
// aplicarse.
type StepData struct {
	Step     Step
	Types    []entity.DocumentType
	Drivers  []entity.Driver
	Vehicles []entity.Vehicle
	Clients  []entity.Client
	Items    []entity.CatalogItem
	Stale    bool
}

// AddItemResult resultado de agregar un artículo. Agregar uno ya
// presente no duplica: produce un aviso.
type AddItemResult struct {
	Added  bool
	Notice string
}

// DeleteLineResult resultado de borrar una línea. Warning no vacío con
// Removed=true indica un borrado con advertencia (404 remoto).
type DeleteLineResult struct {
	Removed bool
	Warning string
}

// CommitResult resultado de la confirmación en modo creación. Warnings
// no vacío con Created=true es el estado "guardado con advertencias":
// la cabecera quedó escrita y no se revierte.
type CommitResult struct {
	Created  bool
	Warnings []string
}

// ApplyResult resultado de "aplicar ajustes" en modo edición.
type ApplyResult struct {
	Applied        bool
	Message        string
	Warnings       []string
	LinesAffected  int64
	HeaderAffected int64
}

// Open abre una sesión nueva y limpia todo estado de trabajo. En modo
// edición pre-siembra la cabecera desde el tiquete existente; las
// líneas se difieren al SnapshotLoader (se cargan al pasar por
// Transporte). Number y Type quedan inmutables en edición.
func (c *Controller) Open(ctx context.Context, mode Mode, number, ticketType string) (*SessionState, error) {
	s := newSession(mode)
	if mode == ModeEdit {
		exists, header, err := c.tickets.Exists(ctx, number, ticketType)
		if err != nil {
			return nil, fmt.Errorf("%w: verificar tiquete", domain.ErrConnectivity)
		}
		if !exists || header == nil {
			return nil, domain.ErrNotFound
		}
		s.draft = header.Clone()
		s.draft.Lines = nil
		s.clientLocked = true
	}
	c.sessions.Put(s)
	c.log.Info().Str("session", s.ID).Str("mode", string(mode)).Msg("sesión de tiquete abierta")
	return c.stateOf(s), nil
}

// State devuelve la vista actual de la sesión.
func (c *Controller) State(sessionID string) (*SessionState, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.stateOf(s), nil
}

// Activate cambia el paso activo. Se rechaza si el paso no está en el
// conjunto habilitado; un paso habilitado sigue activable aunque el
// usuario haya vuelto a pasos anteriores (habilitación pegajosa).
func (c *Controller) Activate(sessionID string, step Step) (*SessionState, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !step.Valid() || !s.isUnlocked(step) {
		return nil, domain.ErrStepLocked
	}
	s.active = step
	s.bumpNav()
	return c.stateOf(s), nil
}

// Advance valida el paso de origen y, si pasa, habilita y activa el
// destino. En fallo deja el paso activo sin cambios y devuelve el error
// tipado (con pista de foco si es de validación).
func (c *Controller) Advance(ctx context.Context, sessionID string, from Step, payload AdvancePayload) (*SessionState, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !from.Valid() || !s.isUnlocked(from) {
		return nil, domain.ErrStepLocked
	}

	switch from {
	case StepNumberAndDate:
		err = c.advanceNumberAndDate(ctx, s, payload.NumberAndDate)
	case StepTransport:
		err = c.advanceTransport(ctx, s, payload.Transport)
	case StepClient:
		err = c.advanceClient(ctx, s, payload.Client)
	case StepItemSelection:
		err = c.advanceItemSelection(s)
	case StepQuantities:
		err = c.advanceQuantities(s)
	default:
		err = domain.ErrStepLocked
	}
	if err != nil {
		return nil, err
	}
	return c.stateOf(s), nil
}

// advanceNumberAndDate — NumberAndDate → Transport. En creación exige
// además que el chequeo remoto de duplicado diga "no existe" (el
// chequeo se repite en la confirmación final como red de seguridad).
func (c *Controller) advanceNumberAndDate(ctx context.Context, s *Session, p *NumberAndDatePayload) error {
	if p == nil {
		return &ValidationError{Step: StepNumberAndDate, Field: "number", Message: "datos del paso incompletos"}
	}
	if verr := validateNumberAndDate(*p, c.now()); verr != nil {
		return verr
	}
	if s.Mode == ModeEdit {
		// El tiquete ya existe remotamente: número y tipo no cambian.
		if p.Number != s.draft.Number || p.Type != s.draft.Type {
			return domain.ErrTicketImmutable
		}
	} else {
		exists, _, err := c.tickets.Exists(ctx, p.Number, p.Type)
		if err != nil {
			return fmt.Errorf("%w: verificar duplicado", domain.ErrConnectivity)
		}
		if exists {
			return domain.ErrDuplicate
		}
		s.draft.Number = p.Number
		s.draft.Type = p.Type
	}
	s.draft.Date = p.Date
	s.draft.Week, s.draft.Year = ticket.ISOWeek(p.Date)
	s.dirty = true
	s.unlock(StepTransport)
	s.active = StepTransport
	s.bumpNav()
	return nil
}

// advanceTransport — Transport → Client en creación. En edición salta
// Cliente y va directo a Cantidades, cargando las líneas existentes vía
// SnapshotLoader (el cliente ya está fijo y queda bloqueado); la
// selección de artículos queda habilitada para agregar líneas nuevas.
func (c *Controller) advanceTransport(ctx context.Context, s *Session, p *TransportPayload) error {
	if p == nil {
		return &ValidationError{Step: StepTransport, Field: "driver", Message: "datos del paso incompletos"}
	}
	if verr := validateTransport(*p); verr != nil {
		return verr
	}
	s.draft.DriverCode = p.DriverCode
	s.draft.DriverName = p.DriverName
	s.draft.VehicleCode = p.VehicleCode
	s.draft.VehiclePlate = p.VehiclePlate
	s.dirty = true

	if s.Mode == ModeEdit {
		if s.baseline == nil {
			base, err := c.loader.Load(ctx, s.draft.Number, s.draft.Type)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.ErrNotFound
				}
				return fmt.Errorf("%w: cargar snapshot", domain.ErrConnectivity)
			}
			s.baseline = base
			s.draft.Lines = base.Clone().Lines
			s.draft.ClientCode = base.ClientCode
			s.draft.ClientName = base.ClientName
			for i := range s.draft.Lines {
				s.entries[s.draft.Lines[i].Code] = s.draft.Lines[i].Quantity.String()
			}
		}
		s.unlock(StepItemSelection)
		s.unlock(StepQuantities)
		s.active = StepQuantities
	} else {
		s.unlock(StepClient)
		s.active = StepClient
	}
	s.bumpNav()
	return nil
}

// advanceClient — Client → ItemSelection. Exige cliente seleccionado y
// que la consulta de artículos habilitados devuelva al menos una fila;
// si no, regla de negocio (mensaje distinto al de validación) y el
// usuario permanece en Cliente. Al pasar, el cliente queda bloqueado
// para el resto de la sesión.
func (c *Controller) advanceClient(ctx context.Context, s *Session, p *ClientPayload) error {
	if s.clientLocked {
		return &BusinessRuleError{Code: "CLIENT_LOCKED", Message: "el cliente ya no se puede modificar"}
	}
	if p == nil {
		return &ValidationError{Step: StepClient, Field: "client", Message: "datos del paso incompletos"}
	}
	if verr := validateClient(*p); verr != nil {
		return verr
	}
	items, err := c.catalog.ClientEligibleItems(ctx, p.ClientCode)
	if err != nil {
		return fmt.Errorf("%w: artículos del cliente", domain.ErrConnectivity)
	}
	if len(items) == 0 {
		return &BusinessRuleError{Code: "CLIENT_NO_ITEMS", Message: "el cliente no tiene artículos habilitados"}
	}
	s.draft.ClientCode = p.ClientCode
	s.draft.ClientName = p.ClientName
	s.clientLocked = true
	s.eligible = items
	s.dirty = true
	s.unlock(StepItemSelection)
	s.active = StepItemSelection
	s.bumpNav()
	return nil
}

// advanceItemSelection — ItemSelection → Quantities. Exige al menos un
// artículo movido al conjunto de líneas de trabajo.
func (c *Controller) advanceItemSelection(s *Session) error {
	if verr := validateItemSelection(s.draft.Lines); verr != nil {
		return verr
	}
	s.unlock(StepQuantities)
	s.active = StepQuantities
	s.bumpNav()
	return nil
}

// advanceQuantities — Quantities → Summary. Toda línea no bloqueada
// debe tener cantidad positiva dentro del formato (8,2); las bloqueadas
// están exentas. El error señala el campo a enfocar.
func (c *Controller) advanceQuantities(s *Session) error {
	if verr := validateQuantities(s.draft.Lines, s.entries); verr != nil {
		return verr
	}
	for i := range s.draft.Lines {
		l := &s.draft.Lines[i]
		if l.Locked() {
			continue
		}
		q, _ := ticket.ParseQuantity(s.entries[l.Code])
		l.Quantity = q
	}
	s.unlock(StepSummary)
	s.active = StepSummary
	s.bumpNav()
	return nil
}

// FetchStepData trae los datos de referencia del paso. Si mientras la
// consulta estaba en vuelo el usuario navegó a otro paso, la respuesta
// se marca Stale y no se aplica (no se cachea nada en la sesión).
func (c *Controller) FetchStepData(ctx context.Context, sessionID string, step Step, search string) (*StepData, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if !step.Valid() || !s.isUnlocked(step) {
		s.mu.Unlock()
		return nil, domain.ErrStepLocked
	}
	token := s.navToken
	clientCode := s.draft.ClientCode
	s.mu.Unlock()

	data := &StepData{Step: step}
	switch step {
	case StepNumberAndDate:
		data.Types, err = c.catalog.DocumentTypes(ctx)
	case StepTransport:
		if data.Drivers, err = c.catalog.Drivers(ctx); err == nil {
			data.Vehicles, err = c.catalog.Vehicles(ctx)
		}
	case StepClient:
		data.Clients, err = c.catalog.SearchClients(ctx, search)
	case StepItemSelection:
		data.Items, err = c.catalog.ClientEligibleItems(ctx, clientCode)
	default:
		// Cantidades y Resumen trabajan solo con las líneas de la sesión.
	}
	if err != nil {
		return nil, fmt.Errorf("%w: datos de referencia", domain.ErrConnectivity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.navToken != token || s.active != step {
		data.Stale = true
		return data, nil
	}
	if step == StepItemSelection && len(data.Items) > 0 {
		s.eligible = data.Items
	}
	return data, nil
}

// AddItem agrega un artículo habilitado al conjunto de líneas. Es
// idempotente: agregar un código ya presente produce el aviso "ya
// agregado" en lugar de duplicar la línea.
func (c *Controller) AddItem(ctx context.Context, sessionID, itemCode string) (*AddItemResult, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isUnlocked(StepItemSelection) {
		return nil, domain.ErrStepLocked
	}
	if s.draft.HasLine(itemCode) {
		return &AddItemResult{Added: false, Notice: domain.ErrItemAlreadyAdded.Error()}, nil
	}
	item, err := c.eligibleItem(ctx, s, itemCode)
	if err != nil {
		return nil, err
	}
	s.draft.Lines = append(s.draft.Lines, entity.ItemLine{
		Code:        item.Code,
		Description: item.Description,
		Unit:        item.Unit,
		GroupCode:   item.GroupCode,
		FamilyCode:  item.FamilyCode,
	})
	s.entries[item.Code] = ""
	s.dirty = true
	return &AddItemResult{Added: true}, nil
}

// eligibleItem busca el artículo en el cache de habilitados; si el
// cache está vacío (edición recién cargada) consulta el catálogo.
func (c *Controller) eligibleItem(ctx context.Context, s *Session, itemCode string) (*entity.CatalogItem, error) {
	if s.eligible == nil {
		items, err := c.catalog.ClientEligibleItems(ctx, s.draft.ClientCode)
		if err != nil {
			return nil, fmt.Errorf("%w: artículos del cliente", domain.ErrConnectivity)
		}
		s.eligible = items
	}
	for i := range s.eligible {
		if s.eligible[i].Code == itemCode {
			return &s.eligible[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// SetQuantity registra la cantidad tecleada para una línea,
// normalizándola (coma → punto, dígitos truncados a 8 enteros y 2
// decimales). Vacío es válido mientras se edita. Una línea bloqueada
// rechaza la edición. Devuelve el texto normalizado.
func (c *Controller) SetQuantity(sessionID, itemCode, raw string) (string, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.draft.FindLine(itemCode)
	if line == nil {
		return "", domain.ErrNotFound
	}
	if line.Locked() {
		return "", domain.ErrLockConflict
	}
	norm := ticket.NormalizeQuantity(raw)
	s.entries[itemCode] = norm
	if q, perr := ticket.ParseQuantity(norm); perr == nil {
		line.Quantity = q
	}
	s.dirty = true
	return norm, nil
}

// RemoveLine quita una línea del tiquete. En edición, si la línea
// existe remotamente primero se pide el borrado al repositorio, que
// rechaza con conflicto de bloqueo cuando el stock externo ya no
// coincide con la cantidad: en ese caso la línea se conserva y se
// indica devolver la cantidad al origen antes de borrar. Un 404 remoto
// produce una advertencia no fatal y se borra localmente.
func (c *Controller) RemoveLine(ctx context.Context, sessionID, itemCode string) (*DeleteLineResult, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.draft.FindLine(itemCode)
	if line == nil {
		return nil, domain.ErrNotFound
	}

	if s.Mode == ModeEdit && line.Original != nil {
		err := c.tickets.DeleteAllocationLine(ctx, s.draft.Number, itemCode, s.draft.Type)
		switch {
		case err == nil:
			// borrado remoto ok; cae al borrado local
		case errors.Is(err, domain.ErrLockConflict):
			return nil, fmt.Errorf("%w: devuelva la cantidad al origen antes de borrar", domain.ErrLockConflict)
		case errors.Is(err, domain.ErrNotFound):
			s.draft.RemoveLine(itemCode)
			delete(s.entries, itemCode)
			s.dirty = true
			return &DeleteLineResult{Removed: true, Warning: "la línea ya no existía en el servicio"}, nil
		default:
			return nil, fmt.Errorf("%w: borrar línea", domain.ErrConnectivity)
		}
	}

	s.draft.RemoveLine(itemCode)
	delete(s.entries, itemCode)
	s.dirty = true
	return &DeleteLineResult{Removed: true}, nil
}

// Commit confirma el tiquete en modo creación desde Resumen:
// (1) re-chequeo de duplicado; (2) cabecera; (3) líneas de movimiento;
// (4) líneas de asignación. Cada escritura es independiente, sin
// transacción entre colecciones; el orden fijo garantiza que un fallo
// después de la cabecera deja un documento válido y encontrable en vez
// de líneas huérfanas. Fallo parcial = "guardado con advertencias".
func (c *Controller) Commit(ctx context.Context, sessionID string) (*CommitResult, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	// La guarda de vuelo se toma bajo el mutex; las escrituras de red
	// corren sin él para que un segundo disparo se rechace en vez de
	// encolarse (previene envíos duplicados).
	s.mu.Lock()
	if s.Mode != ModeCreate {
		s.mu.Unlock()
		return nil, &BusinessRuleError{Code: "EDIT_MODE", Message: "use aplicar ajustes en modo edición"}
	}
	if s.active != StepSummary || !s.isUnlocked(StepSummary) {
		s.mu.Unlock()
		return nil, domain.ErrStepLocked
	}
	if s.saving {
		s.mu.Unlock()
		return nil, domain.ErrOperationInFlight
	}
	s.saving = true
	header := s.draft.Clone()
	s.mu.Unlock()

	res, err := c.commitTicket(ctx, header)

	s.mu.Lock()
	s.saving = false
	if err == nil {
		s.dirty = false
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c.log.Info().
		Str("session", s.ID).
		Str("number", header.Number).
		Str("type", header.Type).
		Int("lines", len(header.Lines)).
		Int("warnings", len(res.Warnings)).
		Msg("tiquete creado")
	return res, nil
}

// commitTicket ejecuta las escrituras remotas de la creación.
func (c *Controller) commitTicket(ctx context.Context, header *entity.Ticket) (*CommitResult, error) {
	exists, _, err := c.tickets.Exists(ctx, header.Number, header.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: verificar duplicado", domain.ErrConnectivity)
	}
	if exists {
		return nil, domain.ErrDuplicate
	}

	movs, allocs := c.buildLines(header)

	if err := c.tickets.CreateHeader(ctx, header); err != nil {
		// Nada quedó escrito: la operación es segura de reintentar.
		return nil, fmt.Errorf("%w: guardar cabecera", domain.ErrConnectivity)
	}

	res := &CommitResult{Created: true}
	if err := c.tickets.CreateMovementLines(ctx, movs); err != nil {
		res.Warnings = append(res.Warnings, "líneas de movimiento no guardadas: "+err.Error())
	}
	if err := c.tickets.CreateAllocationLines(ctx, allocs); err != nil {
		res.Warnings = append(res.Warnings, "líneas de asignación no guardadas: "+err.Error())
	}
	return res, nil
}

// buildLines arma las líneas de movimiento y de asignación desde el
// estado de trabajo, para la escritura completa en creación.
func (c *Controller) buildLines(t *entity.Ticket) ([]repository.MovementLine, []repository.AllocationLine) {
	txID := uuid.New().String()
	movs := make([]repository.MovementLine, 0, len(t.Lines))
	allocs := make([]repository.AllocationLine, 0, len(t.Lines))
	for i := range t.Lines {
		l := &t.Lines[i]
		movs = append(movs, repository.MovementLine{
			TransactionID: txID,
			TicketNumber:  t.Number,
			TicketType:    t.Type,
			ItemCode:      l.Code,
			Quantity:      l.Quantity,
			Date:          t.Date,
			Week:          t.Week,
			Year:          t.Year,
		})
		allocs = append(allocs, repository.AllocationLine{
			TicketNumber:   t.Number,
			TicketType:     t.Type,
			ItemCode:       l.Code,
			Description:    l.Description,
			Quantity:       l.Quantity,
			WarehouseStock: l.Quantity,
			Unit:           l.Unit,
			GroupCode:      l.GroupCode,
			FamilyCode:     l.FamilyCode,
		})
	}
	return movs, allocs
}

// Changeset recalcula el diff actual (derivado, nunca se persiste).
func (c *Controller) Changeset(sessionID string) (*Changeset, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := computeChangeset(s.baseline, s.draft)
	return &ch, nil
}

// ApplyAdjustments aplica el changeset en modo edición. Si no hay
// cambios reporta "nada que aplicar" sin llamadas de red (reaplicar es
// no-op). Los ajustes de línea y el diff de cabecera van a endpoints
// independientes; el fallo de uno no revierte el otro. La guarda de
// vuelo deshabilita la acción mientras la petición está en curso.
func (c *Controller) ApplyAdjustments(ctx context.Context, sessionID string) (*ApplyResult, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.Mode != ModeEdit {
		s.mu.Unlock()
		return nil, &BusinessRuleError{Code: "CREATE_MODE", Message: "use confirmar en modo creación"}
	}
	if !s.isUnlocked(StepSummary) {
		s.mu.Unlock()
		return nil, domain.ErrStepLocked
	}
	if s.applying {
		s.mu.Unlock()
		return nil, domain.ErrOperationInFlight
	}

	ch := computeChangeset(s.baseline, s.draft)
	if ch.Empty() {
		// Idempotencia: reaplicar sin más ediciones no hace ninguna
		// llamada de red.
		s.mu.Unlock()
		return &ApplyResult{Applied: false, Message: "no hay cambios para aplicar"}, nil
	}
	s.applying = true
	number, ticketType := s.draft.Number, s.draft.Type
	s.mu.Unlock()

	res := &ApplyResult{Applied: true}
	linesOK, headerOK := true, true
	if len(ch.Lines) > 0 {
		rows, err := c.tickets.ApplyAllocationAdjustments(ctx, number, ticketType, ch.Lines)
		if err != nil {
			linesOK = false
			res.Warnings = append(res.Warnings, "ajustes de línea no aplicados: "+err.Error())
		} else {
			res.LinesAffected = rows
		}
	}
	if !ch.Header.Empty() {
		rows, err := c.tickets.UpdateHeader(ctx, number, ticketType, ch.Header)
		if err != nil {
			headerOK = false
			res.Warnings = append(res.Warnings, "cabecera no actualizada: "+err.Error())
		} else {
			res.HeaderAffected = rows
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applying = false
	advanceBaseline(s, ch, linesOK && len(ch.Lines) > 0, headerOK && !ch.Header.Empty())
	// Una edición tecleada con la petición en vuelo no entra al avance
	// del baseline: queda como diff residual y la sesión sigue sucia.
	if linesOK && headerOK && computeChangeset(s.baseline, s.draft).Empty() {
		s.dirty = false
	}
	c.log.Info().
		Str("session", s.ID).
		Str("number", s.draft.Number).
		Int("line_adjustments", len(ch.Lines)).
		Bool("header_changed", !ch.Header.Empty()).
		Int("warnings", len(res.Warnings)).
		Msg("ajustes aplicados")
	return res, nil
}

// Close cierra la sesión descartando estado de trabajo y baseline sin
// persistir resultados parciales. Con ediciones sin guardar se exige
// confirmación antes de descartar.
func (c *Controller) Close(sessionID string, confirm bool) error {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.dirty && !confirm {
		s.mu.Unlock()
		return domain.ErrUnsavedChanges
	}
	s.mu.Unlock()
	c.sessions.Delete(sessionID)
	c.log.Debug().Str("session", sessionID).Msg("sesión cerrada")
	return nil
}

// stateOf arma la vista de sesión. Llamar con el mutex tomado.
func (c *Controller) stateOf(s *Session) *SessionState {
	entries := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		entries[k] = v
	}
	return &SessionState{
		ID:           s.ID,
		Mode:         s.Mode,
		Active:       s.active,
		Unlocked:     s.unlockedSteps(),
		Draft:        s.draft.Clone(),
		Entries:      entries,
		ClientLocked: s.clientLocked,
		Dirty:        s.dirty,
	}
}
