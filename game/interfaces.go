package game

// Emitter defines the outbound notification channel the engine fans events
// out on. This is defined here to keep the engine decoupled from the
// transport; the broadcast package provides the real implementation.
type Emitter interface {
	// ToRoom delivers an event to every member of a room.
	ToRoom(roomCode, event string, payload interface{}) error
	// ToRoomExcept delivers an event to every member except one socket.
	ToRoomExcept(roomCode, exceptSocketID, event string, payload interface{}) error
	// ToSession delivers an event to a single connection.
	ToSession(socketID, event string, payload interface{}) error
}
