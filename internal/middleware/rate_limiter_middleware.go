package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/fadilmartias/job-atlas/internal/ratelimit"
	"github.com/fadilmartias/job-atlas/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const tooManyRequests = "too many requests"

// RateLimiter is the global per-IP guard in front of every route.
func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	if max == 0 {
		max = 50
	}
	if expiration == 0 {
		expiration = 1 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		LimitReached: func(c *fiber.Ctx) error {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusTooManyRequests,
				Message: tooManyRequests,
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}

// KeyedRateLimiter admits requests through a fixed-window limiter keyed by client IP and
// answers 429 with Retry-After once the window is exhausted.
func KeyedRateLimiter(l *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if l.Allow(key) {
			c.Set("X-RateLimit-Limit", strconv.Itoa(l.Max()))
			c.Set("X-RateLimit-Remaining", strconv.Itoa(l.Remaining(key)))
			return c.Next()
		}

		retry := int(math.Ceil(l.RetryAfter(key).Seconds()))
		if retry < 1 {
			retry = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retry))
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusTooManyRequests,
			Message: tooManyRequests,
		})
	}
}
