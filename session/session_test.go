package session

import (
	"net"
	"testing"
	"time"

	"github.com/cardclash/gameserver/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(event string, payload interface{}) error { return nil }
func (m *MockConnection) Close() error                                 { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                         { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)          {}
func (m *MockConnection) ReadEnvelope() (*network.Envelope, error)     { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByRoom(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.Bind("alice", "room-a")

	sess2 := NewSession("session2", &MockConnection{})
	sess2.Bind("bob", "room-b")

	sess3 := NewSession("session3", &MockConnection{})
	sess3.Bind("carol", "room-a")

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	roomA := manager.GetByRoom("room-a")
	if len(roomA) != 2 {
		t.Errorf("Expected 2 sessions in room-a, got %d", len(roomA))
	}

	roomB := manager.GetByRoom("room-b")
	if len(roomB) != 1 {
		t.Errorf("Expected 1 session in room-b, got %d", len(roomB))
	}

	roomC := manager.GetByRoom("room-c")
	if len(roomC) != 0 {
		t.Errorf("Expected 0 sessions in room-c, got %d", len(roomC))
	}
}

func TestManager_Expired(t *testing.T) {
	manager := NewManager()

	stale := NewSession("stale", &MockConnection{})
	stale.LastActive = time.Now().Add(-3 * time.Minute)

	fresh := NewSession("fresh", &MockConnection{})

	manager.Add(stale)
	manager.Add(fresh)

	expired := manager.Expired(2 * time.Minute)
	if len(expired) != 1 {
		t.Fatalf("Expected 1 expired session, got %d", len(expired))
	}
	if expired[0].GetID() != "stale" {
		t.Errorf("Expected the stale session to expire, got %q", expired[0].GetID())
	}

	// A touch brings a stale session back under the idle budget.
	stale.Touch()
	if len(manager.Expired(2*time.Minute)) != 0 {
		t.Error("Expected no expired sessions after the stale one was touched")
	}
}

func TestSession_Bind(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})

	sess.Bind("alice", "room-a")
	if sess.Room() != "room-a" {
		t.Errorf("Expected room-a, got %q", sess.Room())
	}
	if sess.Username != "alice" {
		t.Errorf("Expected username alice, got %q", sess.Username)
	}

	// Leaving clears the binding.
	sess.Bind("", "")
	if sess.Room() != "" {
		t.Errorf("Expected an empty room binding, got %q", sess.Room())
	}
}
