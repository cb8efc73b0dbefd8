package repositories

import (
	"context"

	"ega-bank-client/internal/models"
)

// SessionRepositoryInterface defines the contract for the persisted session row
type SessionRepositoryInterface interface {
	Get(ctx context.Context, key string) (*models.StoredSession, error)
	Put(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
}
