// store/redis.go
package store

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/encoding/json"

	"github.com/cardclash/gameserver/models"
)

// maxUpdateRetries bounds the optimistic update loop; after this many lost
// races the caller sees ErrConflict.
const maxUpdateRetries = 5

// opTimeout bounds every store call so a slow Redis surfaces as an error
// instead of stalling the operation.
const opTimeout = 5 * time.Second

// RedisStore keeps one JSON-serialized room record per room code.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 房间存储连接
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, roomCode string) (*models.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	payload, err := s.client.Get(ctx, roomCode).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var room models.Room
	if err := json.Unmarshal([]byte(payload), &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RedisStore) Set(ctx context.Context, roomCode string, room *models.Room) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	payload, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, roomCode, payload, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, roomCode string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.client.Del(ctx, roomCode).Err()
}

// Update runs fn against the current record under a WATCH transaction, so
// a concurrent writer invalidates this write and the read-modify-write is
// retried from a fresh snapshot.
func (s *RedisStore) Update(ctx context.Context, roomCode string, fn UpdateFunc) (*models.Room, error) {
	var updated *models.Room

	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, roomCode).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var room models.Room
		if err := json.Unmarshal([]byte(payload), &room); err != nil {
			return err
		}

		keep, err := fn(&room)
		if err != nil {
			return err
		}

		if !keep {
			updated = &room
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, roomCode)
				return nil
			})
			return err
		}

		out, err := json.Marshal(&room)
		if err != nil {
			return err
		}
		updated = &room
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, roomCode, out, 0)
			return nil
		})
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txn, roomCode)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrConflict
}

// Close 关闭 Redis 连接
func (s *RedisStore) Close() error {
	return s.client.Close()
}
