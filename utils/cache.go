package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// InitRedis connects to Redis using REDIS_ADDR/REDIS_PASSWORD from the
// environment. The client is shared process-wide.
func InitRedis() *redis.Client {
	redisOnce.Do(func() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})

		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Connected to Redis")
	})
	return redisClient
}

// CacheKey builds a stable cache key from a prefix and query parameters,
// hashed so arbitrary user input never lands in the key space verbatim.
func CacheKey(prefix string, queryParams url.Values) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		values := queryParams[key]
		sort.Strings(values)
		for _, val := range values {
			sb.WriteString(key)
			sb.WriteString("=")
			sb.WriteString(val)
			sb.WriteString("&")
		}
	}
	rawKey := strings.TrimSuffix(sb.String(), "&")

	sum := sha256.Sum256([]byte(rawKey))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// InvalidateCache deletes every key matching pattern using SCAN and a
// pipelined DEL, so a mutation never serves stale listings.
func InvalidateCache(ctx context.Context, client *redis.Client, pattern string) {
	const scanCount = 100

	var keysToDelete []string
	var cursor uint64
	var err error

	for {
		var currentKeys []string
		currentKeys, cursor, err = client.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			log.Printf("Error during Redis SCAN for pattern %q: %v", pattern, err)
			return
		}
		keysToDelete = append(keysToDelete, currentKeys...)
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) == 0 {
		return
	}

	pipe := client.Pipeline()
	for _, key := range keysToDelete {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error deleting %d cache keys matching %q: %v", len(keysToDelete), pattern, err)
	}
}
