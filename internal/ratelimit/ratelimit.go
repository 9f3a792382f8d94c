package ratelimit

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	apierrors "codeberg.org/lumina/server/internal/errors"
	"codeberg.org/lumina/server/internal/logger"
)

const keyPrefix = "lumina:ratelimit"

// builds a per-client-IP limiter from a formatted rate such as "10-M".
// Counters live in Redis when a client is given, else in process memory
func Middleware(formatted string, client *redis.Client) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	store, err := newStore(client)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(store, rate)

	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			apierrors.TooManyRequests(c, "too many requests, try again later")
		}),
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			// a broken counter store must not lock users out
			logger.ErrorErr(err, "rate limiter store failed", "path", c.Request.URL.Path)
			c.Next()
		}),
	), nil
}

func newStore(client *redis.Client) (limiter.Store, error) {
	if client == nil {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: keyPrefix}), nil
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}

	return store, nil
}
