package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/tickets-pro/internal/domain"
	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
)

// Mode modo de apertura del asistente.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Session estado de trabajo de una sesión del asistente: un solo usuario,
// un solo proceso. Todo evento (transición, validación, reconciliación)
// se serializa con el mutex de la sesión y corre hasta completarse antes
// del siguiente.
type Session struct {
	ID        string
	Mode      Mode
	CreatedAt time.Time

	mu sync.Mutex

	active   Step
	unlocked map[Step]bool

	draft    *entity.Ticket
	baseline *entity.Ticket // inmutable tras cargarse; solo para diff

	// Texto crudo de cantidad por código de artículo (se permite vacío
	// mientras se edita; se valida al pasar a Resumen).
	entries map[string]string

	// Artículos habilitados para el cliente, cacheados tras el paso
	// Cliente (o al cargar el snapshot en edición).
	eligible []entity.CatalogItem

	clientLocked bool
	dirty        bool

	// Guardas de reentrada: deshabilitan la acción que dispara una
	// petición mientras esa petición está en vuelo.
	saving   bool
	applying bool

	// navToken crece en cada navegación; una respuesta de datos de paso
	// que llegue con un token viejo se descarta sin aplicarse.
	navToken uint64
}

func newSession(mode Mode) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Mode:      mode,
		CreatedAt: time.Now(),
		active:    StepNumberAndDate,
		unlocked:  map[Step]bool{StepNumberAndDate: true},
		draft:     &entity.Ticket{Status: entity.TicketStatusActive},
		entries:   map[string]string{},
	}
	return s
}

// unlock agrega el paso al conjunto habilitado. El conjunto es
// monótono: unlocked' = unlocked ∪ {step}, nunca se revoca.
func (s *Session) unlock(step Step) {
	s.unlocked[step] = true
}

// isUnlocked indica si el paso está habilitado en esta sesión.
func (s *Session) isUnlocked(step Step) bool {
	return s.unlocked[step]
}

// unlockedSteps devuelve los pasos habilitados en orden.
func (s *Session) unlockedSteps() []Step {
	out := make([]Step, 0, len(s.unlocked))
	for _, st := range stepOrder {
		if s.unlocked[st] {
			out = append(out, st)
		}
	}
	return out
}

// bumpNav invalida las respuestas pendientes de pasos anteriores.
func (s *Session) bumpNav() uint64 {
	s.navToken++
	return s.navToken
}

// SessionStore almacén en memoria de sesiones del asistente (mapa
// protegido por RWMutex, claves uuid). El estado de sesión es en
// memoria por contrato: no se coordina con otros editores.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore construye el almacén.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*Session{}}
}

// Put registra la sesión.
func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Get devuelve la sesión o domain.ErrSessionNotFound.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Delete descarta la sesión (estado de trabajo y baseline incluidos).
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len cantidad de sesiones vivas.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
