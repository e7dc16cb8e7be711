package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/zsiec/vq/internal/config"
	apperrors "github.com/zsiec/vq/internal/errors"
)

// RedisStore implements Store using Redis as backend. Each record lives under
// <prefix><run>:<file>; the set at <prefix><run> indexes the files of a run.
type RedisStore struct {
	client *redis.Client
	logger *logrus.Logger
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(client *redis.Client, logger *logrus.Logger, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "vq:runs:"
	}
	return &RedisStore{
		client: client,
		logger: logger,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Open connects to the configured Redis server and verifies it answers.
func Open(ctx context.Context, cfg config.StoreConfig, logger *logrus.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.WrapStoreError(err, "failed to connect to redis at "+cfg.RedisAddr)
	}
	logger.WithField("addr", cfg.RedisAddr).Debug("Connected to Redis")

	return NewRedisStore(client, logger, cfg.Prefix, cfg.TTL), nil
}

func (r *RedisStore) recordKey(runID, file string) string {
	return r.prefix + runID + ":" + file
}

func (r *RedisStore) indexKey(runID string) string {
	return r.prefix + runID
}

// Save implements Store.
func (r *RedisStore) Save(ctx context.Context, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	indexKey := r.indexKey(rec.RunID)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.recordKey(rec.RunID, rec.File), data, r.ttl)
		pipe.SAdd(ctx, indexKey, rec.File)
		if r.ttl > 0 {
			pipe.Expire(ctx, indexKey, r.ttl)
		}
		return nil
	})
	if err != nil {
		return apperrors.WrapStoreError(err, "failed to save record "+rec.File)
	}

	r.logger.WithFields(logrus.Fields{
		"run_id": rec.RunID,
		"file":   rec.File,
		"passed": rec.Passed,
	}).Debug("Record saved")
	return nil
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, runID, file string) (*Record, error) {
	data, err := r.client.Get(ctx, r.recordKey(runID, file)).Bytes()
	if err == redis.Nil {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, apperrors.WrapStoreError(err, "failed to get record "+file)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// List implements Store.
func (r *RedisStore) List(ctx context.Context, runID string) ([]*Record, error) {
	files, err := r.client.SMembers(ctx, r.indexKey(runID)).Result()
	if err != nil {
		return nil, apperrors.WrapStoreError(err, "failed to list run "+runID)
	}
	sort.Strings(files)

	recs := make([]*Record, 0, len(files))
	for _, file := range files {
		rec, err := r.Get(ctx, runID, file)
		if err == ErrRecordNotFound {
			// Expired between SMEMBERS and GET
			continue
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Close implements Store.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
