package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(GetEnv("JWT_SECRET", "change_me_in_production"))

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"

// Currency is the fixed currency code stamped on every order.
const Currency = "INR"

var Ctx = context.Background()

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
