package api

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yakoovad/makarapreneur/internal/auth"
	"github.com/yakoovad/makarapreneur/internal/service"
	"github.com/yakoovad/makarapreneur/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"net"
	"slices"
	"sync"
	"time"
)

const (
	loggerKey    = "logger"
	userIDKey    = "user_id"
	tokenTypeKey = "token_type"
)

func ZapLoggerMiddleware(l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)

			reqLogger := l.With(
				zap.String("request_id", requestID),
			)

			c.Set(loggerKey, reqLogger)

			ctx := logger.WithLogger(req.Context(), reqLogger)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			latency := time.Since(start)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("uri", req.RequestURI),
				zap.String("remote_ip", c.RealIP()),
				zap.Int("status", res.Status),
				zap.Duration("latency", latency),
				zap.Int64("bytes_in", req.ContentLength),
				zap.Int64("bytes_out", res.Size),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
				reqLogger.Error("request failed", fields...)
			} else {
				reqLogger.Info("request completed", fields...)
			}

			return err
		}
	}
}

func GetLoggerFromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// AuthMiddleware accepts bearer tokens of the allowed types. A valid token of
// another type is rejected as forbidden.
func AuthMiddleware(allowed ...auth.TokenType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := auth.ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if errors.Is(err, auth.ErrMissingToken) {
				return transportError(c, service.NewError(service.ErrorCodeUnauthorized, "missing bearer token"))
			}
			if err != nil {
				GetLoggerFromContext(c).Debug("rejected token", zap.Error(err))
				return transportError(c, service.NewError(service.ErrorCodeUnauthorized, "invalid token"))
			}

			if !slices.Contains(allowed, claims.Type) {
				return transportError(c, service.NewError(service.ErrorCodeForbidden, "access denied"))
			}

			c.Set(userIDKey, claims.UserID())
			c.Set(tokenTypeKey, claims.Type)

			req := c.Request()
			reqLogger := logger.FromContext(req.Context()).With(zap.String("user_id", claims.UserID()))
			c.Set(loggerKey, reqLogger)
			c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), reqLogger)))

			return next(c)
		}
	}
}

func currentUserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPExtractor resolves the client IP from the socket unless the request came
// through one of the trusted proxy ranges, in which case X-Forwarded-For is used.
func NewIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	options := make([]echo.TrustOption, 0, len(trustedProxies))
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid trusted proxy %q", cidr)
		}
		options = append(options, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(options...), nil
}

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = rl.now()

	return v.limiter.Allow()
}

// Sweep forgets clients idle for longer than idle and reports how many were dropped.
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idle)
	dropped := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			dropped++
		}
	}
	return dropped
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !rl.allow(ip) {
				GetLoggerFromContext(c).Warn("rate limit exceeded",
					zap.String("remote_ip", ip),
					zap.String("path", c.Path()))
				return transportError(c, service.NewError(service.ErrorCodeTooManyRequests, "too many requests"))
			}
			return next(c)
		}
	}
}
