package rdx

import (
	"os"
	"time"

	"pablospizza/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	Conn = redis.NewClient(&redis.Options{Addr: addr})
}

// SetWithExpiry stores a value under key with a TTL.
func SetWithExpiry(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

// Get returns the cached value for key, or "" if absent or on error.
func Get(key string) string {
	val, err := Conn.Get(globals.Ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Del removes a key, ignoring errors.
func Del(key string) {
	Conn.Del(globals.Ctx, key)
}
