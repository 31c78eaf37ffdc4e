package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/export"
)

const snapshotKey = "lunch:snapshot"

// RedisStore persists snapshots in Redis so a restart does not force a cold
// pipeline run.
type RedisStore struct {
	client *redis.Client
	loc    *time.Location
}

type storedSnapshot struct {
	Records   []export.Record `json:"records"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewRedisStore connects to Redis using a URL like redis://host:6379/0.
func NewRedisStore(ctx context.Context, redisURL string, loc *time.Location) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &RedisStore{client: client, loc: loc}, nil
}

// Save stores the snapshot as JSON under a fixed key.
func (s *RedisStore) Save(ctx context.Context, snapshot Snapshot) error {
	payload := storedSnapshot{
		Records:   export.FromRecords(snapshot.Records),
		FetchedAt: snapshot.FetchedAt,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}
	return nil
}

// Load fetches the persisted snapshot. A missing key yields a zero snapshot
// and no error.
func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading snapshot: %w", err)
	}

	var payload storedSnapshot
	if err := json.Unmarshal(data, &payload); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshalling snapshot: %w", err)
	}
	records, err := export.ToRecords(payload.Records, s.loc)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Records: records, FetchedAt: payload.FetchedAt}, nil
}

// Ping checks connectivity for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
