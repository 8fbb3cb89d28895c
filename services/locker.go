package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RoomLocker serialises front-desk sessions working on the same rooms.
// Lock is all-or-nothing; a held room yields ErrRoomBusy.
type RoomLocker interface {
	Lock(ctx context.Context, roomIDs ...uint) (unlock func(), err error)
}

// NewRoomLocker returns a redis-backed locker, or a process-local one when
// rdb is nil.
func NewRoomLocker(rdb *redis.Client, ttl time.Duration) RoomLocker {
	if rdb == nil {
		return NewLocalLocker()
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

func sortedUnique(ids []uint) []uint {
	out := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ---------------- redis ----------------

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func roomLockKey(id uint) string {
	return fmt.Sprintf("room-lock:%d", id)
}

func (l *RedisLocker) Lock(ctx context.Context, roomIDs ...uint) (func(), error) {
	token := uuid.NewString()
	ids := sortedUnique(roomIDs)
	held := make([]string, 0, len(ids))

	release := func() {
		// detached so a cancelled request still releases its keys
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		for _, key := range held {
			if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("room lock release failed")
			}
		}
	}

	for _, id := range ids {
		key := roomLockKey(id)
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			release()
			return nil, fmt.Errorf("room lock %d: %w", id, err)
		}
		if !ok {
			release()
			return nil, fmt.Errorf("%w: room id %d", ErrRoomBusy, id)
		}
		held = append(held, key)
	}
	return release, nil
}

// ---------------- local ----------------

type LocalLocker struct {
	mu   sync.Mutex
	held map[uint]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[uint]struct{})}
}

func (l *LocalLocker) Lock(_ context.Context, roomIDs ...uint) (func(), error) {
	ids := sortedUnique(roomIDs)

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if _, busy := l.held[id]; busy {
			return nil, fmt.Errorf("%w: room id %d", ErrRoomBusy, id)
		}
	}
	for _, id := range ids {
		l.held[id] = struct{}{}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			for _, id := range ids {
				delete(l.held, id)
			}
			l.mu.Unlock()
		})
	}, nil
}
