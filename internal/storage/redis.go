package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore remembers which product URLs were scraped recently so repeat
// runs within the deduplication window skip their fetch cost.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string, dedupDays int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{
		client: rdb,
		ttl:    time.Duration(dedupDays) * 24 * time.Hour,
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// MarkScraped sets a key with a TTL to prevent re-scraping the URL.
func (s *RedisStore) MarkScraped(ctx context.Context, url string) error {
	return s.client.Set(ctx, scrapedKey(url), "1", s.ttl).Err()
}

// IsRecentlyScraped checks if a URL was scraped within the TTL.
func (s *RedisStore) IsRecentlyScraped(ctx context.Context, url string) (bool, error) {
	val, err := s.client.Exists(ctx, scrapedKey(url)).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}

func scrapedKey(url string) string {
	return fmt.Sprintf("scraped:%s", url)
}
