package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/alfred/core/model"
	"github.com/kilianp07/alfred/core/resolver"
)

// ErrNotFound is returned for unknown session identifiers.
var ErrNotFound = errors.New("session not found")

// Session is the editable state of one dashboard user. Selection is the
// source of truth; Config and Result are derived from it on every change.
type Session struct {
	ID        string                    `json:"id"`
	Selection resolver.Selection        `json:"selection"`
	Config    model.SystemConfiguration `json:"config"`
	Result    *model.PowerBalanceResult `json:"result,omitempty"`
	Devices   []model.DeviceUsage       `json:"devices"`
	Error     string                    `json:"error,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Store keeps sessions isolated from each other.
type Store interface {
	Create(s Session) Session
	Get(id string) (Session, error)
	// Update applies fn to a copy of the session and stores the copy only
	// when fn succeeds.
	Update(id string, fn func(*Session) error) (Session, error)
	Delete(id string) error
	List() []Session
}

// MemoryStore is a Store kept in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Session
	now  func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]Session{}, now: time.Now}
}

// Create assigns an identifier and timestamps to s and stores it.
func (m *MemoryStore) Create(s Session) Session {
	s.ID = uuid.NewString()
	s.CreatedAt = m.now().UTC()
	s.UpdatedAt = s.CreatedAt
	s = s.clone()
	m.mu.Lock()
	m.data[s.ID] = s
	m.mu.Unlock()
	return s.clone()
}

func (m *MemoryStore) Get(id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s.clone(), nil
}

func (m *MemoryStore) Update(id string, fn func(*Session) error) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.data[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	next := cur.clone()
	if err := fn(&next); err != nil {
		return cur.clone(), err
	}
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = m.now().UTC()
	m.data[id] = next
	return next.clone(), nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[id]; !ok {
		return ErrNotFound
	}
	delete(m.data, id)
	return nil
}

// List returns the sessions ordered by creation time.
func (m *MemoryStore) List() []Session {
	m.mu.RLock()
	res := make([]Session, 0, len(m.data))
	for _, s := range m.data {
		res = append(res, s.clone())
	}
	m.mu.RUnlock()
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res
}

// clone copies the slices so stored sessions never alias caller memory.
func (s Session) clone() Session {
	out := s
	out.Selection.Devices = append([]resolver.DeviceSelection(nil), s.Selection.Devices...)
	out.Config = s.Config.Clone()
	out.Devices = append([]model.DeviceUsage(nil), s.Devices...)
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	return out
}
