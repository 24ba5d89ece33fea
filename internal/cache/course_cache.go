package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cyberacademy/internal/model"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "cyberacademy:"

// CourseCache keeps serialized course lists in Redis.
type CourseCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewCourseCache connects to Redis at addr and verifies the connection.
func NewCourseCache(ctx context.Context, addr, password string, ttl time.Duration) (*CourseCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &CourseCache{rdb: rdb, ttl: ttl}, nil
}

func (c *CourseCache) GetCourses(ctx context.Context, key string) ([]model.Course, bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var courses []model.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, false, fmt.Errorf("decode cached courses: %w", err)
	}
	return courses, true, nil
}

func (c *CourseCache) SetCourses(ctx context.Context, key string, courses []model.Course) error {
	raw, err := json.Marshal(courses)
	if err != nil {
		return fmt.Errorf("encode courses: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Invalidate drops the given keys.
func (c *CourseCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = keyPrefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *CourseCache) Close() error {
	return c.rdb.Close()
}
