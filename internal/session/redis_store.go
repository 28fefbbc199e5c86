// Package session provides the Redis-backed session context: guest display
// names, per-board password verification flags and refresh tokens. Everything
// here is scoped to a browser session and expires with it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	guestNameKey   = "ahmo_guest_name:"
	boardVerifyKey = "ahmo_board_pw_"
	refreshKey     = "ahmo_refresh:"
)

// RefreshData holds the data stored for each refresh token
type RefreshData struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection. ttl bounds the
// lifetime of guest names and verification flags.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// SaveGuestName stores the session's guest display name. Overwrites any
// previous name for the session.
func (s *RedisStore) SaveGuestName(ctx context.Context, sessionID, name string) error {
	if err := s.client.Set(ctx, guestNameKey+sessionID, name, s.ttl).Err(); err != nil {
		return fmt.Errorf("save guest name: %w", err)
	}
	return nil
}

// GuestName returns the stored guest name, or "" when none was captured.
func (s *RedisStore) GuestName(ctx context.Context, sessionID string) (string, error) {
	name, err := s.client.Get(ctx, guestNameKey+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup guest name: %w", err)
	}
	return name, nil
}

// MarkBoardVerified records that the session passed the board's password gate.
func (s *RedisStore) MarkBoardVerified(ctx context.Context, sessionID, boardID string) error {
	key := boardVerifyKey + boardID + ":" + sessionID
	if err := s.client.Set(ctx, key, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("mark board verified: %w", err)
	}
	return nil
}

// BoardVerified reports whether the session already passed the password gate.
func (s *RedisStore) BoardVerified(ctx context.Context, sessionID, boardID string) (bool, error) {
	key := boardVerifyKey + boardID + ":" + sessionID
	_, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup board verified: %w", err)
	}
	return true, nil
}

// ClearSession drops the guest name for a session. Verification flags expire
// on their own TTL.
func (s *RedisStore) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, guestNameKey+sessionID).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// SaveRefreshSession stores a refresh token hash with expiration
func (s *RedisStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	data := RefreshData{
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal refresh data: %w", err)
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}

	if err := s.client.Set(ctx, refreshKey+tokenHash, jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// LookupRefreshSession resolves a refresh token hash to the user it was
// issued for.
func (s *RedisStore) LookupRefreshSession(ctx context.Context, tokenHash string) (string, error) {
	jsonData, err := s.client.Get(ctx, refreshKey+tokenHash).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("token not found or expired")
	}
	if err != nil {
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}

	var data RefreshData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return "", fmt.Errorf("unmarshal refresh data: %w", err)
	}
	return data.UserID, nil
}

// RevokeRefreshSession deletes a refresh token
func (s *RedisStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	if err := s.client.Del(ctx, refreshKey+tokenHash).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
