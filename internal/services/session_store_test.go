package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"ega-bank-client/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

// SessionStoreTestSuite defines the test suite for SessionStore
type SessionStoreTestSuite struct {
	suite.Suite
	ctx     context.Context
	logger  *slog.Logger
	storage TokenStorageInterface
	store   SessionStoreInterface
}

func (s *SessionStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.storage = NewMemoryTokenStorage()
	s.store = NewSessionStore(s.storage, "ega_token", s.logger)
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreTestSuite))
}

func (s *SessionStoreTestSuite) TestFreshStoreIsUnauthenticated() {
	token, ok := s.store.GetToken(s.ctx)
	s.False(ok)
	s.Empty(token)
	s.False(s.store.IsAuthenticated(s.ctx))
	s.Empty(s.store.AuthHeader(s.ctx))
}

func (s *SessionStoreTestSuite) TestSaveTokenThenRead() {
	s.Require().NoError(s.store.SaveToken(s.ctx, "abc"))

	token, ok := s.store.GetToken(s.ctx)
	s.True(ok)
	s.Equal("abc", token)
	s.True(s.store.IsAuthenticated(s.ctx))
	s.Equal("Bearer abc", s.store.AuthHeader(s.ctx).Get("Authorization"))
}

func (s *SessionStoreTestSuite) TestSaveTokenReplacesPrevious() {
	s.Require().NoError(s.store.SaveToken(s.ctx, "first"))
	s.Require().NoError(s.store.SaveToken(s.ctx, "second"))

	token, ok := s.store.GetToken(s.ctx)
	s.True(ok)
	s.Equal("second", token)
}

func (s *SessionStoreTestSuite) TestEmptyTokenCountsAsAbsent() {
	s.Require().NoError(s.store.SaveToken(s.ctx, ""))

	s.False(s.store.IsAuthenticated(s.ctx))
	s.Empty(s.store.AuthHeader(s.ctx).Get("Authorization"))
}

func (s *SessionStoreTestSuite) TestLogout() {
	s.Require().NoError(s.store.SaveToken(s.ctx, "abc"))
	s.Require().NoError(s.store.Logout(s.ctx))

	s.False(s.store.IsAuthenticated(s.ctx))

	// clearing an absent token still succeeds
	s.NoError(s.store.Logout(s.ctx))
}

func (s *SessionStoreTestSuite) TestStoresWithDifferentKeysAreIndependent() {
	other := NewSessionStore(s.storage, "other_token", s.logger)

	s.Require().NoError(s.store.SaveToken(s.ctx, "abc"))
	s.False(other.IsAuthenticated(s.ctx))

	s.Require().NoError(other.SaveToken(s.ctx, "xyz"))
	s.Require().NoError(s.store.Logout(s.ctx))

	token, ok := other.GetToken(s.ctx)
	s.True(ok)
	s.Equal("xyz", token)
}

func (s *SessionStoreTestSuite) TestStorageFailures() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	storage := service_mocks.NewMockTokenStorageInterface(ctrl)
	store := NewSessionStore(storage, "ega_token", s.logger)
	storageErr := errors.New("disk full")

	s.Run("unreadable storage counts as absent", func() {
		storage.EXPECT().Load(gomock.Any(), "ega_token").Return("", false, storageErr).Times(2)

		s.False(store.IsAuthenticated(s.ctx))
		s.Empty(store.AuthHeader(s.ctx))
	})

	s.Run("save failure is returned", func() {
		storage.EXPECT().Store(gomock.Any(), "ega_token", "abc").Return(storageErr)

		err := store.SaveToken(s.ctx, "abc")
		s.ErrorIs(err, storageErr)
	})

	s.Run("logout failure is returned", func() {
		storage.EXPECT().Remove(gomock.Any(), "ega_token").Return(storageErr)

		err := store.Logout(s.ctx)
		s.ErrorIs(err, storageErr)
	})
}
