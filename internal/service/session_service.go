package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const sessionKeyPrefix = "session"

// SessionStore is the allow-list of issued session token ids.
// A token is only honoured while its id is present.
type SessionStore interface {
	Save(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error
}

type redisSessionStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisSessionStore(client *redis.Client, log *logrus.Logger) SessionStore {
	return &redisSessionStore{
		client: client,
		log:    log,
	}
}

func sessionKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", sessionKeyPrefix, userID.String(), tokenID)
}

func (s *redisSessionStore) Save(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(userID, tokenID), "valid", ttl).Err(); err != nil {
		s.log.Warnf("Failed to store session in Redis: %+v", err)
		return err
	}
	return nil
}

func (s *redisSessionStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := s.client.Exists(ctx, sessionKey(userID, tokenID)).Result()
	if err != nil {
		s.log.Warnf("Failed to check session in Redis: %+v", err)
		return false, err
	}
	return exists > 0, nil
}

func (s *redisSessionStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error {
	if err := s.client.Del(ctx, sessionKey(userID, tokenID)).Err(); err != nil {
		s.log.Warnf("Failed to delete session from Redis: %+v", err)
		return err
	}
	return nil
}
