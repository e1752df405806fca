package dto

import (
	"time"

	"github.com/tu-usuario/tickets-pro/internal/application/workflow"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
)

// DateLayout formato de fecha de la API (granularidad de día).
const DateLayout = "2006-01-02"

// OpenSessionRequest body para POST /api/workflow/sessions.
// En modo edit se exigen número y tipo del tiquete existente.
type OpenSessionRequest struct {
	Mode   string `json:"mode" validate:"required,oneof=create edit"`
	Number string `json:"number" validate:"required_if=Mode edit"`
	Type   string `json:"type" validate:"required_if=Mode edit"`
}

// ActivateRequest body para POST /sessions/:id/activate.
type ActivateRequest struct {
	Step string `json:"step" validate:"required"`
}

// NumberAndDateDTO datos del primer paso.
type NumberAndDateDTO struct {
	Number string `json:"number"`
	Type   string `json:"type"`
	Date   string `json:"date"` // YYYY-MM-DD
}

// TransportDTO datos del paso de transporte.
type TransportDTO struct {
	DriverCode   string `json:"driver_code"`
	DriverName   string `json:"driver_name"`
	VehicleCode  string `json:"vehicle_code"`
	VehiclePlate string `json:"vehicle_plate"`
}

// ClientDTO datos del paso de cliente.
type ClientDTO struct {
	ClientCode string `json:"client_code"`
	ClientName string `json:"client_name"`
}

// AdvanceRequest body para POST /sessions/:id/advance. Solo se usa el
// bloque del paso indicado en From.
type AdvanceRequest struct {
	From          string            `json:"from" validate:"required"`
	NumberAndDate *NumberAndDateDTO `json:"number_and_date,omitempty"`
	Transport     *TransportDTO     `json:"transport,omitempty"`
	Client        *ClientDTO        `json:"client,omitempty"`
}

// Payload convierte el request al payload del controlador. Una fecha
// mal formada queda en cero y la rechaza la validación del paso.
func (r AdvanceRequest) Payload() workflow.AdvancePayload {
	var p workflow.AdvancePayload
	if r.NumberAndDate != nil {
		date, _ := time.Parse(DateLayout, r.NumberAndDate.Date)
		p.NumberAndDate = &workflow.NumberAndDatePayload{
			Number: r.NumberAndDate.Number,
			Type:   r.NumberAndDate.Type,
			Date:   date,
		}
	}
	if r.Transport != nil {
		p.Transport = &workflow.TransportPayload{
			DriverCode:   r.Transport.DriverCode,
			DriverName:   r.Transport.DriverName,
			VehicleCode:  r.Transport.VehicleCode,
			VehiclePlate: r.Transport.VehiclePlate,
		}
	}
	if r.Client != nil {
		p.Client = &workflow.ClientPayload{
			ClientCode: r.Client.ClientCode,
			ClientName: r.Client.ClientName,
		}
	}
	return p
}

// AddItemRequest body para POST /sessions/:id/items.
type AddItemRequest struct {
	Code string `json:"code" validate:"required"`
}

// SetQuantityRequest body para PUT /sessions/:id/items/:code/quantity.
type SetQuantityRequest struct {
	Value string `json:"value"`
}

// ItemLineDTO línea del tiquete en respuestas.
type ItemLineDTO struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Entry       string `json:"entry"` // texto crudo tecleado
	Unit        string `json:"unit,omitempty"`
	GroupCode   string `json:"group_code,omitempty"`
	FamilyCode  string `json:"family_code,omitempty"`
	Locked      bool   `json:"locked"`
}

// TicketDTO cabecera del tiquete en respuestas.
type TicketDTO struct {
	Number       string        `json:"number"`
	Type         string        `json:"type"`
	Date         string        `json:"date,omitempty"`
	Week         int           `json:"week,omitempty"`
	Year         int           `json:"year,omitempty"`
	DriverCode   string        `json:"driver_code,omitempty"`
	DriverName   string        `json:"driver_name,omitempty"`
	VehicleCode  string        `json:"vehicle_code,omitempty"`
	VehiclePlate string        `json:"vehicle_plate,omitempty"`
	ClientCode   string        `json:"client_code,omitempty"`
	ClientName   string        `json:"client_name,omitempty"`
	Status       string        `json:"status,omitempty"`
	Lines        []ItemLineDTO `json:"lines"`
}

// SessionResponse estado de la sesión del asistente.
type SessionResponse struct {
	ID           string    `json:"id"`
	Mode         string    `json:"mode"`
	Active       string    `json:"active_step"`
	Unlocked     []string  `json:"unlocked_steps"`
	ClientLocked bool      `json:"client_locked"`
	Dirty        bool      `json:"dirty"`
	Draft        TicketDTO `json:"draft"`
}

// NewSessionResponse mapea el estado del controlador a la respuesta.
func NewSessionResponse(st *workflow.SessionState) SessionResponse {
	resp := SessionResponse{
		ID:           st.ID,
		Mode:         string(st.Mode),
		Active:       string(st.Active),
		ClientLocked: st.ClientLocked,
		Dirty:        st.Dirty,
		Draft:        newTicketDTO(st.Draft, st.Entries),
	}
	for _, s := range st.Unlocked {
		resp.Unlocked = append(resp.Unlocked, string(s))
	}
	return resp
}

func newTicketDTO(t *entity.Ticket, entries map[string]string) TicketDTO {
	d := TicketDTO{
		Number:       t.Number,
		Type:         t.Type,
		Week:         t.Week,
		Year:         t.Year,
		DriverCode:   t.DriverCode,
		DriverName:   t.DriverName,
		VehicleCode:  t.VehicleCode,
		VehiclePlate: t.VehiclePlate,
		ClientCode:   t.ClientCode,
		ClientName:   t.ClientName,
		Status:       t.Status,
		Lines:        make([]ItemLineDTO, 0, len(t.Lines)),
	}
	if !t.Date.IsZero() {
		d.Date = t.Date.Format(DateLayout)
	}
	for i := range t.Lines {
		l := &t.Lines[i]
		d.Lines = append(d.Lines, ItemLineDTO{
			Code:        l.Code,
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			Entry:       entries[l.Code],
			Unit:        l.Unit,
			GroupCode:   l.GroupCode,
			FamilyCode:  l.FamilyCode,
			Locked:      l.Locked(),
		})
	}
	return d
}

// StepDataResponse datos de referencia de un paso.
type StepDataResponse struct {
	Step     string            `json:"step"`
	Stale    bool              `json:"stale"`
	Types    []DocumentTypeDTO `json:"types,omitempty"`
	Drivers  []DriverDTO       `json:"drivers,omitempty"`
	Vehicles []VehicleDTO      `json:"vehicles,omitempty"`
	Clients  []ClientRefDTO    `json:"clients,omitempty"`
	Items    []CatalogItemDTO  `json:"items,omitempty"`
}

// DocumentTypeDTO tipo de documento.
type DocumentTypeDTO struct {
	Name string `json:"name"`
}

// DriverDTO conductor.
type DriverDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// VehicleDTO vehículo.
type VehicleDTO struct {
	Code  string `json:"code"`
	Plate string `json:"plate"`
}

// ClientRefDTO referencia de cliente.
type ClientRefDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CatalogItemDTO artículo de catálogo.
type CatalogItemDTO struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Unit        string `json:"unit,omitempty"`
	GroupCode   string `json:"group_code,omitempty"`
	FamilyCode  string `json:"family_code,omitempty"`
}

// NewStepDataResponse mapea los datos de paso del controlador.
func NewStepDataResponse(d *workflow.StepData) StepDataResponse {
	resp := StepDataResponse{Step: string(d.Step), Stale: d.Stale}
	for _, t := range d.Types {
		resp.Types = append(resp.Types, DocumentTypeDTO{Name: t.Name})
	}
	for _, dr := range d.Drivers {
		resp.Drivers = append(resp.Drivers, DriverDTO{Code: dr.Code, Name: dr.Name})
	}
	for _, v := range d.Vehicles {
		resp.Vehicles = append(resp.Vehicles, VehicleDTO{Code: v.Code, Plate: v.Plate})
	}
	for _, c := range d.Clients {
		resp.Clients = append(resp.Clients, ClientRefDTO{Code: c.Code, Name: c.Name})
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, CatalogItemDTO{
			Code: it.Code, Description: it.Description,
			Unit: it.Unit, GroupCode: it.GroupCode, FamilyCode: it.FamilyCode,
		})
	}
	return resp
}

// HeaderChangesDTO diff de cabecera pendiente: solo los campos que
// difieren del original.
type HeaderChangesDTO struct {
	Date         *string `json:"date,omitempty"`
	Week         *int    `json:"week,omitempty"`
	Year         *int    `json:"year,omitempty"`
	DriverCode   *string `json:"driver_code,omitempty"`
	DriverName   *string `json:"driver_name,omitempty"`
	VehicleCode  *string `json:"vehicle_code,omitempty"`
	VehiclePlate *string `json:"vehicle_plate,omitempty"`
}

// LineAdjustmentDTO ajuste de línea pendiente. Original ausente cuando
// la línea se agregó en esta sesión de edición.
type LineAdjustmentDTO struct {
	Code     string  `json:"code"`
	Original *string `json:"original,omitempty"`
	New      string  `json:"new"`
}

// ChangesetResponse diff mínimo pendiente de aplicar, para el resumen
// en modo edición (vacío en creación). Es derivado: se recalcula en
// cada consulta y nunca se persiste.
type ChangesetResponse struct {
	Empty  bool                `json:"empty"`
	Header HeaderChangesDTO    `json:"header"`
	Lines  []LineAdjustmentDTO `json:"lines"`
}

// NewChangesetResponse mapea el changeset del controlador.
func NewChangesetResponse(ch *workflow.Changeset) ChangesetResponse {
	resp := ChangesetResponse{Empty: ch.Empty()}
	h := ch.Header
	if h.Date != nil {
		d := h.Date.Format(DateLayout)
		resp.Header.Date = &d
	}
	resp.Header.Week = h.Week
	resp.Header.Year = h.Year
	resp.Header.DriverCode = h.DriverCode
	resp.Header.DriverName = h.DriverName
	resp.Header.VehicleCode = h.VehicleCode
	resp.Header.VehiclePlate = h.VehiclePlate
	for _, a := range ch.Lines {
		l := LineAdjustmentDTO{Code: a.Code, New: a.New.String()}
		if a.Original != nil {
			o := a.Original.String()
			l.Original = &o
		}
		resp.Lines = append(resp.Lines, l)
	}
	return resp
}

// CommitResponse resultado de la confirmación en creación.
type CommitResponse struct {
	Created  bool     `json:"created"`
	Warnings []string `json:"warnings,omitempty"`
}

// ApplyResponse resultado de aplicar ajustes en edición.
type ApplyResponse struct {
	Applied        bool     `json:"applied"`
	Message        string   `json:"message,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	LinesAffected  int64    `json:"lines_affected"`
	HeaderAffected int64    `json:"header_affected"`
}

// AddItemResponse resultado de agregar un artículo.
type AddItemResponse struct {
	Added  bool   `json:"added"`
	Notice string `json:"notice,omitempty"`
}

// DeleteLineResponse resultado de borrar una línea.
type DeleteLineResponse struct {
	Removed bool   `json:"removed"`
	Warning string `json:"warning,omitempty"`
}

// QuantityResponse texto normalizado tras SetQuantity.
type QuantityResponse struct {
	Code  string `json:"code"`
	Value string `json:"value"`
}
