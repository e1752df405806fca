package workflow_test

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/tickets-pro/internal/domain"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
	"github.com/tu-usuario/tickets-pro/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los colaboradores externos. Registran cada
// operación en calls para poder afirmar orden de escritura y ausencia
// de llamadas de red (idempotencia de "aplicar ajustes").
// ──────────────────────────────────────────────────────────────────────────────

type fakeCatalog struct {
	mu       sync.Mutex
	types    []entity.DocumentType
	drivers  []entity.Driver
	vehicles []entity.Vehicle
	clients  []entity.Client
	items    map[string][]entity.CatalogItem // por código de cliente

	// onSearchClients se invoca dentro de SearchClients, antes de
	// responder: permite simular una navegación mientras la petición
	// está en vuelo.
	onSearchClients func()

	calls []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		types:    []entity.DocumentType{{Name: "A"}, {Name: "B"}},
		drivers:  []entity.Driver{{Code: "D1", Name: "Pedro Pérez"}},
		vehicles: []entity.Vehicle{{Code: "V1", Plate: "ABC123"}},
		clients:  []entity.Client{{Code: "C1", Name: "Cliente Uno"}},
		items: map[string][]entity.CatalogItem{
			"C1": {
				{Code: "IT1", Description: "Artículo uno", Unit: "kg", GroupCode: "G1", FamilyCode: "F1"},
				{Code: "IT2", Description: "Artículo dos", Unit: "un", GroupCode: "G1", FamilyCode: "F2"},
			},
		},
	}
}

func (f *fakeCatalog) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

func (f *fakeCatalog) DocumentTypes(context.Context) ([]entity.DocumentType, error) {
	f.record("DocumentTypes")
	return f.types, nil
}

func (f *fakeCatalog) Drivers(context.Context) ([]entity.Driver, error) {
	f.record("Drivers")
	return f.drivers, nil
}

func (f *fakeCatalog) Vehicles(context.Context) ([]entity.Vehicle, error) {
	f.record("Vehicles")
	return f.vehicles, nil
}

func (f *fakeCatalog) SearchClients(_ context.Context, search string) ([]entity.Client, error) {
	f.record("SearchClients")
	if f.onSearchClients != nil {
		f.onSearchClients()
	}
	return f.clients, nil
}

func (f *fakeCatalog) ClientEligibleItems(_ context.Context, clientCode string) ([]entity.CatalogItem, error) {
	f.record("ClientEligibleItems")
	return f.items[clientCode], nil
}

type fakeTickets struct {
	mu      sync.Mutex
	headers map[string]*entity.Ticket               // key: number|tipo en minúscula
	lines   map[string][]repository.AllocationLine  // misma key

	deleteErr map[string]error // por código de artículo

	failMovementLines   error
	failAllocationLines error

	// onCreateHeader y onApplyAdjustments permiten bloquear o
	// intercalar acciones con la llamada en vuelo, para probar las
	// guardas de reentrada y las ediciones tardías.
	onCreateHeader     func()
	onApplyAdjustments func()

	calls       []string
	adjustments [][]repository.LineAdjustment
	updates     []repository.HeaderChanges
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{
		headers:   map[string]*entity.Ticket{},
		lines:     map[string][]repository.AllocationLine{},
		deleteErr: map[string]error{},
	}
}

func ticketKey(number, ticketType string) string {
	return number + "|" + strings.ToLower(ticketType)
}

func (f *fakeTickets) seed(t *entity.Ticket, lines []repository.AllocationLine) {
	key := ticketKey(t.Number, t.Type)
	f.headers[key] = t
	f.lines[key] = lines
}

func (f *fakeTickets) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

// writeCalls devuelve solo las operaciones de escritura registradas.
func (f *fakeTickets) writeCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		switch c {
		case "CreateHeader", "CreateMovementLines", "CreateAllocationLines",
			"UpdateHeader", "ApplyAllocationAdjustments", "DeleteAllocationLine":
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeTickets) Exists(_ context.Context, number, ticketType string) (bool, *entity.Ticket, error) {
	f.record("Exists")
	t, ok := f.headers[ticketKey(number, ticketType)]
	if !ok {
		return false, nil, nil
	}
	return true, t.Clone(), nil
}

func (f *fakeTickets) AllocationLines(_ context.Context, number, ticketType string) ([]repository.AllocationLine, error) {
	f.record("AllocationLines")
	return f.lines[ticketKey(number, ticketType)], nil
}

func (f *fakeTickets) CreateHeader(_ context.Context, t *entity.Ticket) error {
	f.record("CreateHeader")
	if f.onCreateHeader != nil {
		f.onCreateHeader()
	}
	key := ticketKey(t.Number, t.Type)
	if _, ok := f.headers[key]; ok {
		return domain.ErrDuplicate
	}
	f.headers[key] = t.Clone()
	return nil
}

func (f *fakeTickets) CreateMovementLines(_ context.Context, lines []repository.MovementLine) error {
	f.record("CreateMovementLines")
	if f.failMovementLines != nil {
		return f.failMovementLines
	}
	return nil
}

func (f *fakeTickets) CreateAllocationLines(_ context.Context, lines []repository.AllocationLine) error {
	f.record("CreateAllocationLines")
	if f.failAllocationLines != nil {
		return f.failAllocationLines
	}
	if len(lines) > 0 {
		key := ticketKey(lines[0].TicketNumber, lines[0].TicketType)
		f.lines[key] = append(f.lines[key], lines...)
	}
	return nil
}

func (f *fakeTickets) UpdateHeader(_ context.Context, number, ticketType string, ch repository.HeaderChanges) (int64, error) {
	f.record("UpdateHeader")
	f.mu.Lock()
	f.updates = append(f.updates, ch)
	f.mu.Unlock()
	return 1, nil
}

func (f *fakeTickets) ApplyAllocationAdjustments(_ context.Context, number, ticketType string, adjs []repository.LineAdjustment) (int64, error) {
	f.record("ApplyAllocationAdjustments")
	if f.onApplyAdjustments != nil {
		f.onApplyAdjustments()
	}
	f.mu.Lock()
	f.adjustments = append(f.adjustments, adjs)
	f.mu.Unlock()
	return int64(len(adjs)), nil
}

func (f *fakeTickets) DeleteAllocationLine(_ context.Context, number, itemCode, ticketType string) error {
	f.record("DeleteAllocationLine")
	if err, ok := f.deleteErr[itemCode]; ok {
		return err
	}
	return nil
}

// dec atajo para decimales en los tests.
func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
