package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// SessionStore is the only read/write path to the persisted session token
type SessionStore struct {
	storage TokenStorageInterface
	key     string
	logger  *slog.Logger
}

// NewSessionStore creates a session store persisting under key
func NewSessionStore(storage TokenStorageInterface, key string, logger *slog.Logger) SessionStoreInterface {
	return &SessionStore{
		storage: storage,
		key:     key,
		logger:  logger,
	}
}

// SaveToken persists token, replacing any previous one. The token is not inspected.
func (s *SessionStore) SaveToken(ctx context.Context, token string) error {
	if err := s.storage.Store(ctx, s.key, token); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	s.logger.DebugContext(ctx, "session token saved", slog.String("token", RedactedValue))
	return nil
}

// GetToken returns the persisted token. Empty values and unreadable storage count as absent.
func (s *SessionStore) GetToken(ctx context.Context) (string, bool) {
	token, ok, err := s.storage.Load(ctx, s.key)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read session token", "error", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// AuthHeader returns the Authorization header for the current token, or an empty header
func (s *SessionStore) AuthHeader(ctx context.Context) http.Header {
	header := http.Header{}
	if token, ok := s.GetToken(ctx); ok {
		header.Set("Authorization", "Bearer "+token)
	}
	return header
}

// Logout clears the persisted token. Clearing an absent token succeeds.
func (s *SessionStore) Logout(ctx context.Context) error {
	if err := s.storage.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear session token: %w", err)
	}
	s.logger.DebugContext(ctx, "session token cleared")
	return nil
}

func (s *SessionStore) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.GetToken(ctx)
	return ok
}
