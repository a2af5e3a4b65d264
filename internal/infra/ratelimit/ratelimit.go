// Package ratelimit is a Redis-backed fixed-window request limiter.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/fastprodman/dicevault/internal/config"
)

const keyTemplate = "dicevault:ratelimit:%s:%s"

// Connect opens a client and checks it answers.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	err := client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

type Limiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func New(client redis.Cmdable, limit int64, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow counts one hit for subject on action and reports whether it is
// within the limit. The window starts at the first hit.
func (l *Limiter) Allow(ctx context.Context, subject, action string) (bool, error) {
	key := fmt.Sprintf(keyTemplate, action, subject)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("count hit: %w", err)
	}

	return incr.Val() <= l.limit, nil
}

// Middleware limits requests per subject, where subject extracts the caller
// from the request. Requests with no subject pass. Redis failures let the
// request through.
func (l *Limiter) Middleware(action string, subject func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who := subject(r)
			if who == "" {
				next.ServeHTTP(w, r)
				return
			}

			ok, err := l.Allow(r.Context(), who, action)
			if err != nil {
				log.WithError(err).WithField("action", action).Warn("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "rate limit exceeded",
					"code":  "RateLimited",
				})

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
