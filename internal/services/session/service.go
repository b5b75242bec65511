package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/webvibe/supportdesk/internal/config"
	"github.com/webvibe/supportdesk/internal/infrastructure/redis"
	"github.com/webvibe/supportdesk/pkg/logger"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	keyPrefix = "session:"

	// memoryPruneThreshold is the number of held sessions above which Set
	// sweeps expired ones.
	memoryPruneThreshold = 1024
)

// ErrNoSession means the session id is unknown to the store, usually because it expired.
var ErrNoSession = errors.New("session not found")

type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
	UserID    string `json:"uid,omitempty"`
}

type StoredMessage struct {
	MessageID string    `json:"message_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type UserSession struct {
	SessionID        string          `json:"session_id"`
	UserID           string          `json:"user_id"`
	Messages         []StoredMessage `json:"messages"`
	SelectedCategory string          `json:"selected_category,omitempty"`
}

// SessionStore returns (nil, nil) from Get when the session does not exist.
type SessionStore interface {
	Set(ctx context.Context, sessionID string, session *UserSession) error
	Get(ctx context.Context, sessionID string) (*UserSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type RedisStore struct {
	redisService *redis.Service
	ttl          time.Duration
}

// MemoryStore keeps sessions in process. Entries expire ttl after their last
// write, like the Redis keys do; a zero ttl never expires.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type Service struct {
	// mu serialises read-modify-write cycles against the store.
	mu       sync.Mutex
	store    SessionStore
	lifetime time.Duration
	secure   bool
}

func NewService(redisService *redis.Service) *Service {
	lifetime := config.GetSessionLifetime()

	var store SessionStore
	if redisService != nil {
		if err := redisService.Ping(context.Background()); err != nil {
			logger.Warn(logger.SESSION, "Redis unreachable, keeping sessions in memory: %v", err)
			store = newMemoryStore(lifetime)
		} else {
			logger.Info(logger.SESSION, "Keeping sessions in Redis")
			store = &RedisStore{redisService: redisService, ttl: lifetime}
		}
	} else {
		logger.Info(logger.SESSION, "Keeping sessions in memory")
		store = newMemoryStore(lifetime)
	}

	return &Service{store: store, lifetime: lifetime, secure: config.GetSessionCookieSecure()}
}

func newMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Redis Store implementation
func (rs *RedisStore) Set(ctx context.Context, sessionID string, session *UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return rs.redisService.Set(ctx, keyPrefix+sessionID, string(data), rs.ttl)
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*UserSession, error) {
	data, err := rs.redisService.Get(ctx, keyPrefix+sessionID)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session UserSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}

	return &session, nil
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.Delete(ctx, keyPrefix+sessionID)
}

// Memory Store implementation. Sessions are stored encoded so callers never
// share slices with the store.
func (ms *MemoryStore) Set(ctx context.Context, sessionID string, session *UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	if len(ms.sessions) > memoryPruneThreshold {
		ms.prune(now)
	}

	entry := memoryEntry{data: data}
	if ms.ttl > 0 {
		entry.expiresAt = now.Add(ms.ttl)
	}
	ms.sessions[sessionID] = entry
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*UserSession, error) {
	ms.mu.RLock()
	entry, exists := ms.sessions[sessionID]
	ms.mu.RUnlock()
	if !exists || entry.expired(ms.now()) {
		return nil, nil
	}

	var session UserSession
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	return nil
}

func (ms *MemoryStore) prune(now time.Time) {
	for id, entry := range ms.sessions {
		if entry.expired(now) {
			delete(ms.sessions, id)
		}
	}
}


// GetOrCreate returns the session named by the request cookie, or starts a
// new one and sets the cookie when there is none or it no longer resolves.
func (s *Service) GetOrCreate(w http.ResponseWriter, r *http.Request) (*UserSession, error) {
	claims, err := s.validateCookie(r)
	if err != nil {
		logger.Debug(logger.SESSION, "Ignoring invalid session cookie: %v", err)
	}

	if claims != nil {
		existing, err := s.store.Get(r.Context(), claims.SessionID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	return s.create(r.Context(), w)
}

func (s *Service) create(ctx context.Context, w http.ResponseWriter) (*UserSession, error) {
	session := &UserSession{
		SessionID: uuid.New().String(),
		UserID:    uuid.New().String(),
		Messages:  []StoredMessage{},
	}

	if err := s.store.Set(ctx, session.SessionID, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        session.SessionID,
		},
		SessionID: session.SessionID,
		UserID:    session.UserID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(config.GetJWTSecret())
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    signedToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  now.Add(s.lifetime),
	})

	logger.Debug(logger.SESSION, "Created session %s", session.SessionID)
	return session, nil
}

// validateCookie returns (nil, nil) when the request carries no session cookie.
func (s *Service) validateCookie(r *http.Request) (*SessionClaims, error) {
	cookie, err := r.Cookie(config.GetSessionCookieName())
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return nil, nil
		}
		return nil, err
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return config.GetJWTSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, nil
}

func (s *Service) update(ctx context.Context, sessionID string, fn func(*UserSession)) (*UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}

	fn(session)

	if err := s.store.Set(ctx, sessionID, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) get(ctx context.Context, sessionID string) (*UserSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}
	return session, nil
}

// AddMessage appends a message to the session log, attributed to the session's user.
func (s *Service) AddMessage(ctx context.Context, sessionID, role, content string) (StoredMessage, error) {
	var message StoredMessage
	_, err := s.update(ctx, sessionID, func(session *UserSession) {
		message = StoredMessage{
			MessageID: uuid.New().String(),
			UserID:    session.UserID,
			Role:      role,
			Content:   content,
			CreatedAt: time.Now().UTC(),
		}
		session.Messages = append(session.Messages, message)
	})
	if err != nil {
		return StoredMessage{}, err
	}
	return message, nil
}

func (s *Service) Messages(ctx context.Context, sessionID string) ([]StoredMessage, error) {
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (s *Service) HasMessages(ctx context.Context, sessionID string) (bool, error) {
	messages, err := s.Messages(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return len(messages) > 0, nil
}

func (s *Service) ClearMessages(ctx context.Context, sessionID string) error {
	_, err := s.update(ctx, sessionID, func(session *UserSession) {
		session.Messages = []StoredMessage{}
	})
	return err
}

func (s *Service) SetSelectedCategory(ctx context.Context, sessionID, category string) error {
	_, err := s.update(ctx, sessionID, func(session *UserSession) {
		session.SelectedCategory = category
	})
	return err
}

// SelectedCategory returns "" when no category has been chosen.
func (s *Service) SelectedCategory(ctx context.Context, sessionID string) (string, error) {
	session, err := s.get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return session.SelectedCategory, nil
}

func (s *Service) ClearSelectedCategory(ctx context.Context, sessionID string) error {
	return s.SetSelectedCategory(ctx, sessionID, "")
}

// ClearSession removes the session cookie and from storage
func (s *Service) ClearSession(w http.ResponseWriter, r *http.Request) {
	if claims, err := s.validateCookie(r); err == nil && claims != nil {
		_ = s.store.Delete(r.Context(), claims.SessionID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.GetSessionCookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(-1 * time.Hour),
		MaxAge:   -1,
	})
}
