package middleware

import (
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"CampusHire-backend/internal/config"
	"CampusHire-backend/internal/utilities"
)

func keyFunc(c *gin.Context) string {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		return "ip: " + c.ClientIP()
	}
	return "user: " + user.ID.String()
}

func errorHandler(c *gin.Context, info ratelimit.Info) {
	c.Header("Retry-After", time.Until(info.ResetTime).Round(time.Second).String())
	c.AbortWithStatusJSON(http.StatusTooManyRequests, utilities.ErrorResponse{
		Error: "Too many requests. Please try again later.",
	})
}

// NewRateLimitStore builds the counter store for cfg. The redis backend needs client.
func NewRateLimitStore(cfg config.RateLimit, client *redis.Client) ratelimit.Store {
	limit := uint(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = 5 // default to 5 requests per second if not set or invalid
	}

	if cfg.Backend == config.BackendRedis && client != nil {
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: client,
			Rate:        time.Second,
			Limit:       limit,
		})
	}
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: limit,
	})
}

// RateLimiterMiddleware limits requests per user, or per IP for anonymous requests
func RateLimiterMiddleware(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		KeyFunc:      keyFunc,
		ErrorHandler: errorHandler,
	})
}
