// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/cardclash/gameserver/session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// RoomBroadcaster fans events out to the connections currently bound to a
// room. It implements game.Emitter. Send failures on individual sockets
// are skipped; a dead connection is cleaned up by its own read loop.
type RoomBroadcaster struct {
	sessionManager *session.Manager
}

func NewRoomBroadcaster(sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) ToRoom(roomCode, event string, payload interface{}) error {
	for _, s := range b.sessionManager.GetByRoom(roomCode) {
		if err := s.Send(event, payload); err != nil {
			continue
		}
	}
	return nil
}

func (b *RoomBroadcaster) ToRoomExcept(roomCode, exceptSocketID, event string, payload interface{}) error {
	for _, s := range b.sessionManager.GetByRoom(roomCode) {
		if s.GetID() == exceptSocketID {
			continue
		}
		if err := s.Send(event, payload); err != nil {
			continue
		}
	}
	return nil
}

func (b *RoomBroadcaster) ToSession(socketID, event string, payload interface{}) error {
	s, exists := b.sessionManager.Get(socketID)
	if !exists {
		return ErrSessionNotFound
	}
	return s.Send(event, payload)
}
