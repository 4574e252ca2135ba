package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nutrifit/backend/internal/models"
	"github.com/nutrifit/backend/internal/types"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a session id is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

const sessionTokenVersion = 1

// Session is the server-side state behind the session cookie
type Session struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        uuid.UUID `json:"user_id"`
	Authenticated bool      `json:"authenticated"`

	// Flash values consumed by the next error page
	FailForm     bool   `json:"fail_form,omitempty"`
	InvalidField string `json:"invalid_field,omitempty"`
	Match        string `json:"match,omitempty"`

	// Generated plans waiting to be favorited or logged
	PendingMeal    models.MealItems        `json:"pending_meal,omitempty"`
	PendingWorkout models.WorkoutExercises `json:"pending_workout,omitempty"`

	// Password reset flow
	ResetUserID   uuid.UUID `json:"reset_user_id,omitempty"`
	ResetVerified bool      `json:"reset_verified,omitempty"`

	// Log windows applied by the next listing
	MealFilter    string `json:"meal_filter,omitempty"`
	WorkoutFilter string `json:"workout_filter,omitempty"`
}

// NewSession returns an empty anonymous session
func NewSession() *Session {
	return &Session{ID: uuid.New().String(), CreatedAt: time.Now()}
}

// Login marks the session as belonging to user and clears failure flags.
// The session gets a fresh id so a token issued before login stops working.
func (s *Session) Login(userID uuid.UUID) {
	s.ID = uuid.New().String()
	s.UserID = userID
	s.Authenticated = true
	s.FailForm = false
	s.InvalidField = ""
	s.ResetUserID = uuid.Nil
	s.ResetVerified = false
}

// SessionStore persists sessions between requests
type SessionStore interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, sess *Session) error
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions as JSON in Redis with a rolling TTL
type RedisSessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewRedisSessionStore creates a new RedisSessionStore
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{redis: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Get retrieves a session from Redis
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Save writes a session to Redis and refreshes its TTL
func (s *RedisSessionStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session to Redis: %w", err)
	}
	return nil
}

// Delete removes a session from Redis
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

// MemorySessionStore keeps sessions in process memory. It serves a single
// instance only and is used when no Redis is configured.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemorySessionStore creates a new MemorySessionStore
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

// Get returns a copy of the stored session
func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Save stores a copy of the session and refreshes its TTL
func (s *MemorySessionStore) Save(_ context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sess.ID] = memoryEntry{data: data, expiresAt: now.Add(s.ttl)}
	return nil
}

// Delete removes a session
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// SessionTokens signs and verifies the session cookie value
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokens creates a new SessionTokens
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl}
}

// Sign returns a token naming the session, valid for the session TTL
func (t *SessionTokens) Sign(sessionID string) (string, error) {
	now := time.Now()
	claims := &types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Version: sessionTokenVersion,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates a token and returns the session id it names
func (t *SessionTokens) Parse(tokenString string) (string, error) {
	claims := &types.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid || claims.SessionID() == "" || claims.Version != sessionTokenVersion {
		return "", errors.New("invalid session token")
	}
	return claims.SessionID(), nil
}

// TTL returns how long sessions and their tokens live
func (t *SessionTokens) TTL() time.Duration {
	return t.ttl
}
