package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisUsersKey      = "timey:users"
	redisProfilePrefix = "timey:profile:"
	redisUpdatesPrefix = "timey:updates:"
)

func redisProfileKey(userID string) string { return redisProfilePrefix + userID }

// RedisUpdatesChannel is where a save announces the new lastUpdated value.
func RedisUpdatesChannel(userID string) string { return redisUpdatesPrefix + userID }

// RedisStore keeps one hash per user, one hash field per top-level document field.
type RedisStore struct {
	client *redis.Client
}

func OpenRedis(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client), nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, userID string) (*Document, error) {
	fields, err := s.client.HGetAll(ctx, redisProfileKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("profile get: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	doc, err := decodeRecord(decodeFields(userID, fields))
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", userID, err)
	}
	return doc, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, doc Document) error {
	rec, err := encodeRecord(userID, doc)
	if err != nil {
		return fmt.Errorf("profile %s: %w", userID, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisProfileKey(userID), encodeFields(rec))
		pipe.SAdd(ctx, redisUsersKey, userID)
		pipe.Publish(ctx, RedisUpdatesChannel(userID), formatTime(rec.LastUpdated))
		return nil
	})
	if err != nil {
		return fmt.Errorf("profile save: %w", err)
	}
	return nil
}

func (s *RedisStore) ListUsers(ctx context.Context) ([]string, error) {
	users, err := s.client.SMembers(ctx, redisUsersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("profile list: %w", err)
	}
	return users, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
