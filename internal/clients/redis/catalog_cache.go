package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nursepath/nursepath-backend/internal/logger"
	"github.com/nursepath/nursepath-backend/internal/types"
	"github.com/nursepath/nursepath-backend/internal/utils"
)

const catalogKey = "course_catalog"

// CatalogCache is a read-through cache for the course catalog. All methods
// fail open: a redis problem is logged and treated as a miss so catalog
// reads fall back to postgres.
type CatalogCache interface {
	GetCourses(ctx context.Context) ([]*types.Course, bool)
	SetCourses(ctx context.Context, courses []*types.Course)
	Invalidate(ctx context.Context)
	Close() error
}

type catalogCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCatalogCache(log *logger.Logger) (CatalogCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("REDIS_CATALOG_TTL_SECONDS", 300, log)

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

	return &catalogCache{
		log: log.With("service", "RedisCatalogCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *catalogCache) GetCourses(ctx context.Context) ([]*types.Course, bool) {
	raw, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Catalog cache read failed", "error", err)
		return nil, false
	}
	var courses []*types.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		c.log.Warn("Catalog cache payload unparsable, invalidating", "error", err)
		c.Invalidate(ctx)
		return nil, false
	}
	return courses, true
}

func (c *catalogCache) SetCourses(ctx context.Context, courses []*types.Course) {
	raw, err := json.Marshal(courses)
	if err != nil {
		c.log.Warn("Catalog cache marshal failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Catalog cache write failed", "error", err)
	}
}

func (c *catalogCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, catalogKey).Err(); err != nil {
		c.log.Warn("Catalog cache invalidate failed", "error", err)
	}
}

func (c *catalogCache) Close() error {
	return c.rdb.Close()
}
