package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   newKeys(cfg.KeyPrefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Creation attempt operations

func (s *Storage) IncrementAttempts(ctx context.Context, userID model.PlayerID) (int, error) {
	key := s.keys.attempts()

	pipe := s.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, string(userID), 1)
	if s.cfg.AttemptsTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.AttemptsTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (s *Storage) GetAttempts(ctx context.Context, userID model.PlayerID) (int, error) {
	n, err := s.client.HGet(ctx, s.keys.attempts(), string(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// resetIfStaleScript swaps the day marker and drops the counts in one step
// so concurrent creators never see a half-reset state.
var resetIfStaleScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == ARGV[1] then
	return 0
end
redis.call("DEL", KEYS[2])
redis.call("SET", KEYS[1], ARGV[1])
return 1
`)

func (s *Storage) ResetAttemptsIfStale(ctx context.Context, day string) (bool, error) {
	res, err := resetIfStaleScript.Run(ctx, s.client, []string{s.keys.attemptsDay(), s.keys.attempts()}, day).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// Game summary operations

func (s *Storage) SaveGameSummary(ctx context.Context, summary *model.GameSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	key := s.keys.summaries()

	// Newest first, trimmed to the configured history length
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	if s.cfg.MaxSummaries > 0 {
		pipe.LTrim(ctx, key, 0, int64(s.cfg.MaxSummaries-1))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListGameSummaries(ctx context.Context, limit int) ([]model.GameSummary, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	items, err := s.client.LRange(ctx, s.keys.summaries(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]model.GameSummary, 0, len(items))
	for _, item := range items {
		var summary model.GameSummary
		if err := json.Unmarshal([]byte(item), &summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
