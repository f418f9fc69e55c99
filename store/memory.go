// store/memory.go
package store

import (
	"context"
	"sync"

	"github.com/segmentio/encoding/json"

	"github.com/cardclash/gameserver/models"
)

// MemoryStore is an in-process Store for tests and local development.
// Records are kept serialized so callers see store-copy semantics, the
// same as the Redis implementation. The mutex is held across Update's
// read-modify-write, which trivially satisfies the Update contract.
type MemoryStore struct {
	mutex sync.Mutex
	rooms map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, roomCode string) (*models.Room, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.get(roomCode)
}

func (s *MemoryStore) get(roomCode string) (*models.Room, error) {
	payload, exists := s.rooms[roomCode]
	if !exists {
		return nil, ErrNotFound
	}
	var room models.Room
	if err := json.Unmarshal(payload, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *MemoryStore) Set(ctx context.Context, roomCode string, room *models.Room) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.set(roomCode, room)
}

func (s *MemoryStore) set(roomCode string, room *models.Room) error {
	payload, err := json.Marshal(room)
	if err != nil {
		return err
	}
	s.rooms[roomCode] = payload
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, roomCode string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.rooms, roomCode)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, roomCode string, fn UpdateFunc) (*models.Room, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	room, err := s.get(roomCode)
	if err != nil {
		return nil, err
	}

	keep, err := fn(room)
	if err != nil {
		return nil, err
	}

	if !keep {
		delete(s.rooms, roomCode)
		return room, nil
	}
	if err := s.set(roomCode, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *MemoryStore) Close() error { return nil }
