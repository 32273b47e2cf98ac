package rdx

import (
	"log"
	"os"
	"time"

	"verbena/globals"

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

// --- Small cache helpers used by the HTTP layer ---

// CacheSet stores a serialized payload with a TTL. Failures are logged and
// swallowed; the cache is best-effort.
func CacheSet(key string, payload []byte, ttl time.Duration) {
	if err := Conn.Set(globals.Ctx, key, payload, ttl).Err(); err != nil {
		log.Println("Redis SET error:", err)
	}
}

// CacheGet returns the cached payload, or nil on miss or error.
func CacheGet(key string) []byte {
	val, err := Conn.Get(globals.Ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Println("Redis GET error:", err)
		}
		return nil
	}
	return val
}

// CacheDel drops one or more cache keys.
func CacheDel(keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := Conn.Del(globals.Ctx, keys...).Err(); err != nil {
		log.Println("Redis DEL error:", err)
	}
}
