package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"Aarogyam/util"

	"github.com/redis/go-redis/v9"
)

// Session is the server-side state behind a login token. Role plus principal
// id is enough to re-resolve the Doctor or Patient on every request.
type Session struct {
	Token       string    `json:"token"`
	PrincipalID string    `json:"principalId"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type SessionStore interface {
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

var _ SessionStore = (*RedisSessions)(nil)

type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func (r *RedisSessions) Put(ctx context.Context, s Session, ttl time.Duration) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	err = r.client.Set(ctx, util.SessionKey+s.Token, payload, ttl).Err()
	if err != nil {
		log.Println("Error while caching session: ", err)
		return util.ErrExternalService
	}
	return nil
}

func (r *RedisSessions) Get(ctx context.Context, token string) (*Session, error) {
	payload, err := r.client.Get(ctx, util.SessionKey+token).Bytes()
	if err == redis.Nil {
		return nil, util.ErrUnauthorized
	}
	if err != nil {
		log.Println("Error while fetching session: ", err)
		return nil, util.ErrExternalService
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisSessions) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, util.SessionKey+token).Err(); err != nil {
		log.Println("Error while deleting session: ", err)
		return util.ErrExternalService
	}
	return nil
}

var _ SessionStore = (*MemorySessions)(nil)

// MemorySessions backs auth unit tests.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]Session)}
}

func (m *MemorySessions) Put(ctx context.Context, s Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MemorySessions) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, util.ErrUnauthorized
	}
	return &s, nil
}

func (m *MemorySessions) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
