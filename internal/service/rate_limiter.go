package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RequestLimiter limita la frecuencia de reportes mini gratuitos por usuario.
type RequestLimiter interface {
	Allow(chatID int64) bool
}

type requestLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[int64][]time.Time
}

// NewRequestLimiter crea un rate limiter en memoria.
func NewRequestLimiter(window time.Duration, max int) RequestLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &requestLimiter{
		window: window,
		max:    max,
		hits:   make(map[int64][]time.Time),
	}
}

func (l *requestLimiter) Allow(chatID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[chatID]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[chatID] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[chatID] = kept
	return true
}

const redisAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisRequestLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

func NewRedisRequestLimiter(client *redis.Client, window time.Duration, max int) RequestLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisRequestLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "report:rl:",
	}
}

func (l *redisRequestLimiter) Allow(chatID int64) bool {
	if l == nil || l.client == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	key := l.prefix + strconv.FormatInt(chatID, 10)
	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisAllowScript, []string{key}, seconds).Int()
	if err != nil {
		// Si Redis no responde preferimos no bloquear al usuario.
		return true
	}
	return count <= l.max
}
