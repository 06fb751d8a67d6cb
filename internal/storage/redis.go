package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"newsbrief/internal/dedupe"
)

const redisKeyPrefix = "newsbrief:delivered:"

// Redis stores delivered-item records as keys with a TTL. Retention is the
// store's concern here: old records simply expire.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ dedupe.Store = (*Redis)(nil)

func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Exists(ctx context.Context, title, publishTime string) (bool, error) {
	n, err := r.client.Exists(ctx, recordKey(title, publishTime)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup lookup: %w", err)
	}
	return n > 0, nil
}

func (r *Redis) Insert(ctx context.Context, rec dedupe.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("dedup insert: %w", err)
	}
	if err := r.client.Set(ctx, recordKey(rec.Title, rec.PublishTime), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("dedup insert: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// recordKey hashes the natural key so titles with arbitrary characters map
// onto a fixed-size Redis key.
func recordKey(title, publishTime string) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(publishTime))
	return redisKeyPrefix + hex.EncodeToString(h.Sum(nil))[:32]
}
