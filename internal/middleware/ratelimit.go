package middleware

import (
	"net/http"

	"github.com/bazario/smart-recs/internal/request"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const defaultRateLimit = "10-S"

// RateLimit returns middleware that uses ulule/limiter with Redis.
// Rate uses the limiter format, e.g. "10-S" for ten requests per second.
// The limit key is the client IP.
func RateLimit(redisClient *redis.Client, rateStr string) (func(http.Handler) http.Handler, error) {
	if rateStr == "" {
		rateStr = defaultRateLimit
	}

	rate, err := limiter.NewRateFromFormatted(rateStr)
	if err != nil {
		return nil, err
	}

	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		return nil, err
	}

	instance := limiter.New(store, rate)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}

	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
