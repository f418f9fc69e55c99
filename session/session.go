// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/cardclash/gameserver/network"
)

// Session is one live connection. ID is the socket id referenced by the
// game core for targeted delivery; it is volatile and never used as the
// player's durable identity, which is the username scoped to a room.
type Session struct {
	ID         string
	Conn       network.Connection
	Username   string
	RoomCode   string
	CreatedAt  time.Time
	LastActive time.Time
	mutex      sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Bind records which player in which room this connection represents.
func (s *Session) Bind(username, roomCode string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Username = username
	s.RoomCode = roomCode
}

// Room returns the room code this connection is bound to.
func (s *Session) Room() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.RoomCode
}

func (s *Session) Send(event string, payload interface{}) error {
	s.Touch()
	return s.Conn.Send(event, payload)
}

// Touch marks the session as active now.
func (s *Session) Touch() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.LastActive = time.Now()
}

// LastSeen returns the time of the session's most recent activity.
func (s *Session) LastSeen() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.LastActive
}

func (s *Session) GetID() string {
	return s.ID
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Session管理器
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(session *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	session, exists := m.sessions[sessionID]
	return session, exists
}

// GetByRoom returns every session bound to roomCode.
func (m *Manager) GetByRoom(roomCode string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.Room() == roomCode {
			result = append(result, session)
		}
	}
	return result
}

// Expired returns every session that has been silent for longer than
// maxIdle. Callers close the returned sessions; their read loops then
// remove them from the manager.
func (m *Manager) Expired(maxIdle time.Duration) []*Session {
	cutoff := time.Now().Add(-maxIdle)

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, session := range m.sessions {
		if session.LastSeen().Before(cutoff) {
			result = append(result, session)
		}
	}
	return result
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
