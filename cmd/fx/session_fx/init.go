package session_fx

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"

	mem "tripsmith/pkg/memcache"
)

var Module = fx.Provide(provideSessionStore)

func provideSessionStore() mem.SessionStore {
	ttl := 24 * time.Hour
	if raw := os.Getenv("SESSION_TTL_HOURS"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			ttl = time.Duration(hours) * time.Hour
		}
	}
	return mem.NewSessionCache(ttl)
}
