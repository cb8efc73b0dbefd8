package services

import (
	"context"
	"testing"

	"ega-bank-client/internal/database"
	"ega-bank-client/internal/repositories"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

// TokenStorageTestSuite runs the same contract against every storage backend
type TokenStorageTestSuite struct {
	suite.Suite
	ctx      context.Context
	redis    *miniredis.Miniredis
	backends map[string]TokenStorageInterface
}

func (s *TokenStorageTestSuite) SetupTest() {
	s.ctx = context.Background()

	db := database.SetupTestDB(s.T())
	s.redis = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.redis.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })

	s.backends = map[string]TokenStorageInterface{
		"memory":     NewMemoryTokenStorage(),
		"repository": NewRepositoryTokenStorage(repositories.NewSessionRepository(db.DB)),
		"redis":      NewRedisTokenStorage(client, "ega"),
	}
}

func TestTokenStorageSuite(t *testing.T) {
	suite.Run(t, new(TokenStorageTestSuite))
}

func (s *TokenStorageTestSuite) TestContract() {
	for name, storage := range s.backends {
		s.Run(name, func() {
			_, ok, err := storage.Load(s.ctx, "ega_token")
			s.Require().NoError(err)
			s.False(ok)

			s.Require().NoError(storage.Store(s.ctx, "ega_token", "first"))
			s.Require().NoError(storage.Store(s.ctx, "ega_token", "second"))

			token, ok, err := storage.Load(s.ctx, "ega_token")
			s.Require().NoError(err)
			s.True(ok)
			s.Equal("second", token)

			s.Require().NoError(storage.Remove(s.ctx, "ega_token"))
			s.Require().NoError(storage.Remove(s.ctx, "ega_token"))

			_, ok, err = storage.Load(s.ctx, "ega_token")
			s.Require().NoError(err)
			s.False(ok)
		})
	}
}

func (s *TokenStorageTestSuite) TestRedisKeysAreNamespaced() {
	storage := s.backends["redis"]
	s.Require().NoError(storage.Store(s.ctx, "ega_token", "abc"))

	value, err := s.redis.Get("ega:ega_token")
	s.Require().NoError(err)
	s.Equal("abc", value)
	s.Zero(s.redis.TTL("ega:ega_token"))
}

func (s *TokenStorageTestSuite) TestRedisUnavailable() {
	storage := s.backends["redis"]
	s.redis.Close()

	_, _, err := storage.Load(s.ctx, "ega_token")
	s.Error(err)
	s.Error(storage.Store(s.ctx, "ega_token", "abc"))
}

func (s *TokenStorageTestSuite) TestSessionSurvivesStoreRecreation() {
	storage := s.backends["repository"]
	first := NewSessionStore(storage, "ega_token", discardLogger())
	s.Require().NoError(first.SaveToken(s.ctx, "persisted"))

	second := NewSessionStore(storage, "ega_token", discardLogger())
	token, ok := second.GetToken(s.ctx)
	s.True(ok)
	s.Equal("persisted", token)
}
