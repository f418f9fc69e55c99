package game

import (
	"strings"
	"testing"
)

func TestNewRoomCode(t *testing.T) {
	code := NewRoomCode()

	if len(code) != roomCodeLength {
		t.Fatalf("Expected a %d-character code, got %q", roomCodeLength, code)
	}
	for _, c := range code {
		if !strings.ContainsRune(roomCodeAlphabet, c) {
			t.Errorf("Code %q contains character %q outside the alphabet", code, c)
		}
	}

	if NewRoomCode() == NewRoomCode() {
		t.Error("Two generated codes should not collide")
	}
}
