package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is the in-process identity minted at login. AssignedClass is nil
// for admins.
type Session struct {
	Token         string
	UserID        int64
	Role          string
	AssignedClass *string
	Name          string
	Username      string
	CreatedAt     time.Time
}

// Store is the injectable session registry. Sessions live in process memory
// only: a restart logs everyone out.
type Store interface {
	Put(s *Session)
	Get(token string) (*Session, bool)
	Delete(token string)

	// UpdateUser propagates account edits to every live session of that
	// user, so role and class changes take effect without re-login.
	UpdateUser(userID int64, name, role string, assignedClass *string)
	// DeleteUser drops every live session of a deleted account.
	DeleteUser(userID int64)
}

// NewToken mints an opaque bearer token. UUIDv4 draws from crypto/rand.
func NewToken() string {
	return uuid.NewString()
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: map[string]*Session{}}
}

func (m *memoryStore) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
}

func (m *memoryStore) Get(token string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, false
	}
	copied := *s
	return &copied, true
}

// Delete is a no-op for absent tokens, so logout is idempotent.
func (m *memoryStore) Delete(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

func (m *memoryStore) UpdateUser(userID int64, name, role string, assignedClass *string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if s.UserID == userID {
			s.Name = name
			s.Role = role
			s.AssignedClass = assignedClass
		}
	}
}

func (m *memoryStore) DeleteUser(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
}
