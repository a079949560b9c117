package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/noteable-backend/internal/logger"
	"github.com/yungbote/noteable-backend/internal/types"
)

// LinkCache holds enrichment results keyed by note identifier. Entries
// live for the process lifetime (memory) or until evicted (redis); they
// are never invalidated by note edits, only replaced on forced refresh.
type LinkCache interface {
	Get(ctx context.Context, noteID string) (types.EntityLinkBundle, bool)
	Put(ctx context.Context, noteID string, bundle types.EntityLinkBundle)
}

type memoryLinkCache struct {
	mu      sync.RWMutex
	bundles map[string]types.EntityLinkBundle
}

func NewMemoryLinkCache() LinkCache {
	return &memoryLinkCache{bundles: map[string]types.EntityLinkBundle{}}
}

func (c *memoryLinkCache) Get(_ context.Context, noteID string) (types.EntityLinkBundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bundles[noteID]
	return b, ok
}

func (c *memoryLinkCache) Put(_ context.Context, noteID string, bundle types.EntityLinkBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bundles[noteID] = bundle
}

type redisLinkCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewRedisLinkCache connects to REDIS_ADDR so several instances can share
// one enrichment cache. Cache errors degrade to misses; they never
// surface to callers.
func NewRedisLinkCache(log *logger.Logger) (LinkCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisLinkCache{
		log: log.With("service", "RedisLinkCache"),
		rdb: rdb,
	}, nil
}

func linkKey(noteID string) string {
	return "noteable:links:" + noteID
}

func (c *redisLinkCache) Get(ctx context.Context, noteID string) (types.EntityLinkBundle, bool) {
	raw, err := c.rdb.Get(ctx, linkKey(noteID)).Bytes()
	if err == goredis.Nil {
		return types.EntityLinkBundle{}, false
	}
	if err != nil {
		c.log.Warn("Link cache read failed", "note_id", noteID, "error", err)
		return types.EntityLinkBundle{}, false
	}
	var bundle types.EntityLinkBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		c.log.Warn("Link cache entry corrupt, treating as miss", "note_id", noteID, "error", err)
		return types.EntityLinkBundle{}, false
	}
	bundle.Normalize()
	return bundle, true
}

func (c *redisLinkCache) Put(ctx context.Context, noteID string, bundle types.EntityLinkBundle) {
	raw, err := json.Marshal(bundle)
	if err != nil {
		c.log.Warn("Link cache encode failed", "note_id", noteID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, linkKey(noteID), raw, 0).Err(); err != nil {
		c.log.Warn("Link cache write failed", "note_id", noteID, "error", err)
	}
}
