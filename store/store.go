// store/store.go
package store

import (
	"context"
	"errors"

	"github.com/cardclash/gameserver/models"
)

var (
	// ErrNotFound is returned when no room exists under the given code.
	ErrNotFound = errors.New("room not found")
	// ErrConflict is returned when an optimistic update loses the write
	// race more times than the retry budget allows.
	ErrConflict = errors.New("room update conflict")
)

// UpdateFunc mutates a room in place. Returning keep=false deletes the
// record instead of writing it back; returning a non-nil error aborts the
// update without writing.
type UpdateFunc func(room *models.Room) (keep bool, err error)

// Store 房间存储接口。Rooms are whole serialized records keyed by room
// code. Update is the only safe way to mutate a room under concurrent
// handlers: implementations perform an optimistic read-modify-write
// (compare-and-swap on the record version) with bounded retry.
type Store interface {
	Get(ctx context.Context, roomCode string) (*models.Room, error)
	Set(ctx context.Context, roomCode string, room *models.Room) error
	Delete(ctx context.Context, roomCode string) error
	Update(ctx context.Context, roomCode string, fn UpdateFunc) (*models.Room, error)
	Close() error
}
