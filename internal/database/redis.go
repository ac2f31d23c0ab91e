package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 5 * time.Second

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces source and settings keys.
	Prefix string
}

// RedisStore keeps state blobs as plain string keys and sources and
// settings in hashes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// Ensure RedisStore implements Store interface.
var _ Store = (*RedisStore)(nil)

// NewRedis connects to Redis and checks the connection.
func NewRedis(opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return newRedisWithClient(client, opts.Prefix)
}

func newRedisWithClient(client *redis.Client, prefix string) (*RedisStore, error) {
	if prefix == "" {
		prefix = "jobdesk"
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) DatabaseType() string {
	return "Redis"
}

func (r *RedisStore) SupportsHighConcurrency() bool {
	return true
}

func (r *RedisStore) sourcesKey() string  { return r.prefix + ":sources" }
func (r *RedisStore) sourceSeqKey() string { return r.prefix + ":sources:seq" }
func (r *RedisStore) settingsKey() string { return r.prefix + ":settings" }

// --- State Methods ---

func (r *RedisStore) LoadState(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	return val, err
}

// SaveState stores value without expiry; the state is a durable cache.
func (r *RedisStore) SaveState(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *RedisStore) DeleteState(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// --- Source Methods ---

func (r *RedisStore) GetSources() ([]model.JobSource, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	vals, err := r.client.HGetAll(ctx, r.sourcesKey()).Result()
	if err != nil {
		return nil, err
	}
	sources := make([]model.JobSource, 0, len(vals))
	for _, raw := range vals {
		var s model.JobSource
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decode source: %w", err)
		}
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Title < sources[j].Title })
	return sources, nil
}

func (r *RedisStore) GetOrCreateSource(title, url, group string) (int64, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	s, err := r.sourceByURL(ctx, url)
	if err == nil {
		return s.ID, false, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, false, err
	}
	id, err := r.client.Incr(ctx, r.sourceSeqKey()).Result()
	if err != nil {
		return 0, false, err
	}
	created := model.JobSource{ID: id, Title: title, URL: url, Group: group}
	data, err := json.Marshal(created)
	if err != nil {
		return 0, false, err
	}
	ok, err := r.client.HSetNX(ctx, r.sourcesKey(), url, data).Result()
	if err != nil {
		return 0, false, err
	}
	if !ok {
		// Lost a race with another writer; report theirs.
		s, err := r.sourceByURL(ctx, url)
		return s.ID, false, err
	}
	return id, true, nil
}

func (r *RedisStore) sourceByURL(ctx context.Context, url string) (model.JobSource, error) {
	var s model.JobSource
	raw, err := r.client.HGet(ctx, r.sourcesKey(), url).Bytes()
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(raw, &s)
	return s, err
}

func (r *RedisStore) updateSource(sourceID int64, fn func(*model.JobSource)) error {
	sources, err := r.GetSources()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	for _, s := range sources {
		if s.ID != sourceID {
			continue
		}
		fn(&s)
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		return r.client.HSet(ctx, r.sourcesKey(), s.URL, data).Err()
	}
	return nil
}

func (r *RedisStore) UpdateSourceLastFetched(sourceID int64, t time.Time) error {
	return r.updateSource(sourceID, func(s *model.JobSource) {
		s.LastFetched = t
		s.LastError = ""
	})
}

func (r *RedisStore) UpdateSourceError(sourceID int64, errMsg string) error {
	return r.updateSource(sourceID, func(s *model.JobSource) {
		s.LastError = errMsg
	})
}

func (r *RedisStore) DeleteSource(sourceID int64) error {
	sources, err := r.GetSources()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	for _, s := range sources {
		if s.ID == sourceID {
			return r.client.HDel(ctx, r.sourcesKey(), s.URL).Err()
		}
	}
	return nil
}

// --- Settings Methods ---

func (r *RedisStore) GetSetting(key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.HGet(ctx, r.settingsKey(), key).Result()
}

func (r *RedisStore) SetSetting(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	return r.client.HSet(ctx, r.settingsKey(), key, value).Err()
}

func (r *RedisStore) GetPollingInterval() (int, error) {
	val, err := r.GetSetting(model.SettingPollingInterval)
	if err != nil {
		return DefaultPollingIntervalMinutes, nil
	}
	mins, err := strconv.Atoi(val)
	if err != nil {
		return DefaultPollingIntervalMinutes, nil
	}
	return clampInterval(mins), nil
}
