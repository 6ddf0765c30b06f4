// Package cache — кэш refresh-сессий в Redis перед таблицей refresh_tokens.
// Источник истины — PostgreSQL; промах или ошибка кэша не влияют на результат.
package cache

//go:generate mockgen -source=cache.go -destination=../../mocks/cache.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/Vladiumnika/forumblackdynasty/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "forum:refresh:"

// SessionCache — контракт кэша refresh-сессий.
type SessionCache interface {
	// Get возвращает сессию и признак попадания.
	Get(ctx context.Context, hash string) (*models.RefreshSession, bool, error)
	// Put кладёт сессию до её ExpiresAt; просроченные не кэшируются.
	Put(ctx context.Context, session *models.RefreshSession) error
	// Invalidate удаляет записи; следующий Get уйдёт в БД.
	Invalidate(ctx context.Context, hashes ...string) error
	Close() error
}

// Redis — SessionCache поверх go-redis.
// Запись — Redis Hash с полями uid, rev (0/1), crt и exp (unix).
type Redis struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

// New создаёт клиента по URL (redis://:pass@host:6379/0) и проверяет соединение.
func New(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	const op = "cache/New"

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return NewFromClient(rdb, cfg.KeyPrefix), nil
}

// NewFromClient оборачивает готового клиента. Пустой prefix -> "forum:refresh:".
func NewFromClient(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &Redis{rdb: rdb, prefix: prefix, now: time.Now}
}

func (c *Redis) key(hash string) string { return c.prefix + hash }

func (c *Redis) Get(ctx context.Context, hash string) (*models.RefreshSession, bool, error) {
	const op = "cache/Get"

	m, err := c.rdb.HGetAll(ctx, c.key(hash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	uid, err := uuid.Parse(m["uid"])
	if err != nil {
		return nil, false, fmt.Errorf("%s: uid: %w", op, err)
	}

	exp, err := strconv.ParseInt(m["exp"], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("%s: exp: %w", op, err)
	}

	crt, _ := strconv.ParseInt(m["crt"], 10, 64)

	return &models.RefreshSession{
		TokenHash: hash,
		UserID:    uid,
		CreatedAt: time.Unix(crt, 0).UTC(),
		ExpiresAt: time.Unix(exp, 0).UTC(),
		Revoked:   m["rev"] == "1",
	}, true, nil
}

func (c *Redis) Put(ctx context.Context, s *models.RefreshSession) error {
	const op = "cache/Put"

	ttl := s.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		return nil
	}

	kv := map[string]string{
		"uid": s.UserID.String(),
		"rev": boolTo01(s.Revoked),
		"crt": strconv.FormatInt(s.CreatedAt.Unix(), 10),
		"exp": strconv.FormatInt(s.ExpiresAt.Unix(), 10),
	}

	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, c.key(s.TokenHash), kv)
	pipe.Expire(ctx, c.key(s.TokenHash), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Redis) Invalidate(ctx context.Context, hashes ...string) error {
	const op = "cache/Invalidate"

	if len(hashes) == 0 {
		return nil
	}

	keys := make([]string, 0, len(hashes))
	for _, h := range hashes {
		keys = append(keys, c.key(h))
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Redis) Close() error { return c.rdb.Close() }

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}

var _ SessionCache = (*Redis)(nil)
