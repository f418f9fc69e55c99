package broadcast

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/cardclash/gameserver/network"
	"github.com/cardclash/gameserver/session"
)

// recordingConnection captures sent events for assertions.
type recordingConnection struct {
	mutex  sync.Mutex
	events []string
}

func (c *recordingConnection) Send(event string, payload interface{}) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *recordingConnection) Close() error                             { return nil }
func (c *recordingConnection) RemoteAddr() net.Addr                     { return &net.TCPAddr{} }
func (c *recordingConnection) SetHeartbeat(interval time.Duration)      {}
func (c *recordingConnection) ReadEnvelope() (*network.Envelope, error) { return nil, nil }

func (c *recordingConnection) count() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.events)
}

func setup() (*RoomBroadcaster, map[string]*recordingConnection) {
	manager := session.NewManager()
	conns := make(map[string]*recordingConnection)

	for _, id := range []string{"s1", "s2", "s3"} {
		conn := &recordingConnection{}
		conns[id] = conn
		sess := session.NewSession(id, conn)
		manager.Add(sess)
	}

	s1, _ := manager.Get("s1")
	s1.Bind("alice", "room-a")
	s2, _ := manager.Get("s2")
	s2.Bind("bob", "room-a")
	s3, _ := manager.Get("s3")
	s3.Bind("carol", "room-b")

	return NewRoomBroadcaster(manager), conns
}

func TestToRoom(t *testing.T) {
	b, conns := setup()

	if err := b.ToRoom("room-a", "move-to-game", nil); err != nil {
		t.Fatalf("ToRoom failed: %v", err)
	}

	if conns["s1"].count() != 1 || conns["s2"].count() != 1 {
		t.Error("Every member of room-a should receive the event")
	}
	if conns["s3"].count() != 0 {
		t.Error("Members of other rooms must not receive the event")
	}
}

func TestToRoomExcept(t *testing.T) {
	b, conns := setup()

	if err := b.ToRoomExcept("room-a", "s1", "player-set-card", nil); err != nil {
		t.Fatalf("ToRoomExcept failed: %v", err)
	}

	if conns["s1"].count() != 0 {
		t.Error("The excluded session must not receive the event")
	}
	if conns["s2"].count() != 1 {
		t.Error("Other members should receive the event")
	}
}

func TestToSession(t *testing.T) {
	b, conns := setup()

	if err := b.ToSession("s2", "select-judge-card", nil); err != nil {
		t.Fatalf("ToSession failed: %v", err)
	}

	if conns["s2"].count() != 1 {
		t.Error("The target session should receive the event")
	}
	if conns["s1"].count() != 0 || conns["s3"].count() != 0 {
		t.Error("Only the target session should receive the event")
	}

	if err := b.ToSession("nope", "select-judge-card", nil); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}
