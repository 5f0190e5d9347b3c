package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dukaanhq/dukaan/pkg/jwt"
)

// Claims is the access-token payload. The subject is the user id.
type Claims struct {
	jwt.StandardClaims
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
	PhotoURL    string `json:"picture,omitempty"`
}

// RefreshStore holds opaque refresh tokens with expiry. Tokens are
// single-use: Consume removes the token as it resolves it.
type RefreshStore interface {
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Consume(ctx context.Context, token string) (uuid.UUID, error)
	Revoke(ctx context.Context, token string) error
}

// TokenPair is what a successful sign-in hands the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

const refreshKeyPrefix = "refresh:"

// RedisRefreshStore keeps refresh tokens in Redis with a TTL, so revocation
// and expiry need no sweeper.
type RedisRefreshStore struct {
	client *redis.Client
}

// NewRedisRefreshStore creates a store over the given client.
func NewRedisRefreshStore(client *redis.Client) *RedisRefreshStore {
	if client == nil {
		panic("auth: redis client is required")
	}
	return &RedisRefreshStore{client: client}
}

func (s *RedisRefreshStore) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+token, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *RedisRefreshStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	value, err := s.client.GetDel(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("consume refresh token: %w", err)
	}
	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return userID, nil
}

func (s *RedisRefreshStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, refreshKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

type memoryToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// MemoryRefreshStore is an in-memory RefreshStore for tests.
type MemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]memoryToken
}

// NewMemoryRefreshStore creates an empty in-memory store.
func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{tokens: map[string]memoryToken{}}
}

func (s *MemoryRefreshStore) Save(_ context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryToken{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Consume(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	delete(s.tokens, token)
	return entry.userID, nil
}

func (s *MemoryRefreshStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
