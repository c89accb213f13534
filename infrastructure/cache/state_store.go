package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// stateTTL bounds how long an OAuth dialog may stay open.
const stateTTL = 10 * time.Minute

const stateKeyPrefix = "fb_oauth_state:"

// IStateStore holds short-lived OAuth CSRF states, each bound to the user who
// opened the dialog. States are single-use: Consume removes them and returns
// the bound user, which is the only trusted owner identity on the callback.
type IStateStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Consume(ctx context.Context, state string) (userID string, ok bool, err error)
}

// RedisStateStore keeps states in redis with a TTL, so they expire on their
// own instead of accumulating in process memory.
type RedisStateStore struct{ client *redis.Client }

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *RedisStateStore) Issue(ctx context.Context, userID string) (string, error) {
	state := randomState()
	if err := s.client.Set(ctx, stateKeyPrefix+state, userID, stateTTL).Err(); err != nil {
		return "", err
	}
	return state, nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (string, bool, error) {
	userID, err := s.client.GetDel(ctx, stateKeyPrefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

// MemoryStateStore is the fallback when redis is unavailable. Expired entries
// are dropped on access.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]stateEntry
}

type stateEntry struct {
	userID string
	exp    time.Time
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: map[string]stateEntry{}}
}

func (s *MemoryStateStore) Issue(_ context.Context, userID string) (string, error) {
	state := randomState()
	s.mu.Lock()
	s.states[state] = stateEntry{userID: userID, exp: time.Now().Add(stateTTL)}
	// opportunistic sweep keeps the map bounded
	for k, e := range s.states {
		if time.Now().After(e.exp) {
			delete(s.states, k)
		}
	}
	s.mu.Unlock()
	return state, nil
}

func (s *MemoryStateStore) Consume(_ context.Context, state string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.states[state]
	if !ok {
		return "", false, nil
	}
	delete(s.states, state)
	if time.Now().After(e.exp) {
		return "", false, nil
	}
	return e.userID, true, nil
}
