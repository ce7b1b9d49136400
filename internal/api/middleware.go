package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"habitz/internal/model"
	"habitz/internal/service/user"
	"habitz/internal/util"
	"habitz/pkg/logger"
	"habitz/pkg/metrics"
	"habitz/pkg/trace"
)

const (
	rateLimitWindow = 60 * time.Second
	rateLimitMax    = 120
)

// AuthMiddleware validates the bearer token and stores user_id in context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := util.ExtractToken(c.Request)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		userID, err := util.ParseJWT(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// LoadUser resolves the authenticated user row once per request so handlers
// can read goals and timezone without their own lookups.
func LoadUser(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		u, err := users.Get(c.Request.Context(), userID.(int))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		c.Set("user", u)
		c.Next()
	}
}

func currentUser(c *gin.Context) *model.User {
	return c.MustGet("user").(*model.User)
}

// queryDay reads a ?date=YYYY-MM-DD parameter, defaulting to the user's
// current local date.
func queryDay(c *gin.Context, u *model.User) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return util.UserToday(u, time.Now()), true
	}

	day, err := time.Parse(util.DateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}

// TraceMiddleware propagates or mints an X-Trace-ID for the request.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName())
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}

		ctx := trace.WithContext(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(trace.HeaderName(), traceID)
		c.Next()
	}
}

// RequestLogger emits one structured log line per request.
func RequestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithTrace(c.Request.Context(), l).Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// MetricsMiddleware records request latency for prometheus.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), start)
	}
}

// RateLimitMiddleware caps requests per client IP with a redis counter.
// Redis failures let the request through.
func RateLimitMiddleware(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		ctx := c.Request.Context()

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, rateLimitWindow)
		}

		if count > rateLimitMax {
			c.Header("Retry-After", strconv.Itoa(int(rateLimitWindow.Seconds())))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rateLimitMax))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rateLimitMax-int(count)))
		c.Next()
	}
}
