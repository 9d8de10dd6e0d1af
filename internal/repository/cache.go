package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/session-auth/internal/config"
	"github.com/iliyamo/session-auth/internal/logging"
	"github.com/iliyamo/session-auth/internal/model"
)

// CachedStore decorates a CredentialStore with a read-through Redis cache
// of users by id. It only serves FindUserByID, the lookup the auth gate
// performs on every protected request; every other call goes straight to
// the wrapped store. Profile updates evict the cached entry. Entries live
// for a short TTL, so a deleted account may keep resolving for at most
// that long.
type CachedStore struct {
	CredentialStore
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    logging.Logger
}

// NewCachedStore returns next unchanged when caching is disabled or no
// Redis client is available.
func NewCachedStore(next CredentialStore, rdb *redis.Client, cfg config.CacheConfig, log logging.Logger) CredentialStore {
	if !cfg.Enabled || rdb == nil {
		return next
	}
	return &CachedStore{CredentialStore: next, rdb: rdb, ttl: cfg.TTL, prefix: cfg.Prefix, log: log}
}

func (c *CachedStore) key(id uint64) string {
	return fmt.Sprintf("%s:user:%d", c.prefix, id)
}

// FindUserByID answers from Redis when possible. Cache failures are logged
// and degrade to the wrapped store.
func (c *CachedStore) FindUserByID(ctx context.Context, id uint64) (model.User, error) {
	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
		var u model.User
		if jerr := json.Unmarshal(raw, &u); jerr == nil {
			return u, nil
		}
		c.log.Warn(ctx, "user cache: corrupt entry", "user_id", id)
	case !errors.Is(err, redis.Nil):
		c.log.Warn(ctx, "user cache: get failed", "user_id", id, "error", err)
	}

	u, err := c.CredentialStore.FindUserByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if b, jerr := json.Marshal(u); jerr == nil {
		if serr := c.rdb.Set(ctx, c.key(id), b, c.ttl).Err(); serr != nil {
			c.log.Warn(ctx, "user cache: set failed", "user_id", id, "error", serr)
		}
	}
	return u, nil
}

// UpdateUserProfile writes through and evicts the cached row.
func (c *CachedStore) UpdateUserProfile(ctx context.Context, id uint64, name string, photo *string) (model.User, error) {
	u, err := c.CredentialStore.UpdateUserProfile(ctx, id, name, photo)
	if err != nil {
		return model.User{}, err
	}
	if derr := c.rdb.Del(ctx, c.key(id)).Err(); derr != nil {
		c.log.Warn(ctx, "user cache: evict failed", "user_id", id, "error", derr)
	}
	return u, nil
}
