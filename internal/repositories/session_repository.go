package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ega-bank-client/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// SessionRepository handles database operations for the stored session token
type SessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) SessionRepositoryInterface {
	return &SessionRepository{
		db: db,
	}
}

// Get retrieves the session stored under key
func (r *SessionRepository) Get(ctx context.Context, key string) (*models.StoredSession, error) {
	var session models.StoredSession

	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

// Put stores token under key, replacing any previous value
func (r *SessionRepository) Put(ctx context.Context, key, token string) error {
	if key == "" {
		return errors.New("session key cannot be empty")
	}

	session := &models.StoredSession{
		Key:       key,
		Token:     token,
		UpdatedAt: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(session).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes the session under key; deleting a missing session is not an error
func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.StoredSession{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
