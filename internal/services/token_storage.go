package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ega-bank-client/internal/repositories"

	"github.com/redis/go-redis/v9"
)

// MemoryTokenStorage keeps tokens for the life of the process
type MemoryTokenStorage struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryTokenStorage() TokenStorageInterface {
	return &MemoryTokenStorage{tokens: make(map[string]string)}
}

func (s *MemoryTokenStorage) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[key]
	return token, ok, nil
}

func (s *MemoryTokenStorage) Store(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = token
	return nil
}

func (s *MemoryTokenStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
	return nil
}

// RepositoryTokenStorage persists tokens through the session repository (sqlite or postgres)
type RepositoryTokenStorage struct {
	repo repositories.SessionRepositoryInterface
}

func NewRepositoryTokenStorage(repo repositories.SessionRepositoryInterface) TokenStorageInterface {
	return &RepositoryTokenStorage{repo: repo}
}

func (s *RepositoryTokenStorage) Load(ctx context.Context, key string) (string, bool, error) {
	session, err := s.repo.Get(ctx, key)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return session.Token, true, nil
}

func (s *RepositoryTokenStorage) Store(ctx context.Context, key, token string) error {
	return s.repo.Put(ctx, key, token)
}

func (s *RepositoryTokenStorage) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// RedisTokenStorage stores tokens under namespace:key in redis
type RedisTokenStorage struct {
	client    redis.UniversalClient
	namespace string
}

func NewRedisTokenStorage(client redis.UniversalClient, namespace string) TokenStorageInterface {
	return &RedisTokenStorage{client: client, namespace: namespace}
}

// NewRedisClient builds a single-node client for the session backend
func NewRedisClient(addr, password string) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
}

func (s *RedisTokenStorage) fullKey(key string) string {
	return s.namespace + ":" + key
}

func (s *RedisTokenStorage) Load(ctx context.Context, key string) (string, bool, error) {
	token, err := s.client.Get(ctx, s.fullKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session from redis: %w", err)
	}
	return token, true, nil
}

// Store writes without expiry; the backend decides when a token stops working
func (s *RedisTokenStorage) Store(ctx context.Context, key, token string) error {
	if err := s.client.Set(ctx, s.fullKey(key), token, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session to redis: %w", err)
	}
	return nil
}

func (s *RedisTokenStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}
