// game/codes.go
package game

import "crypto/rand"

// roomCodeAlphabet matches the nanoid default alphabet; with 6 characters
// the collision probability is negligible for the number of concurrently
// live rooms, so codes are not re-checked against the store.
const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const roomCodeLength = 6

// NewRoomCode generates a short room code.
func NewRoomCode() string {
	buf := make([]byte, roomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to read random bytes: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(buf)
}
