package core

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"stresscast/internal/types"
)

// Fallback traffic limits used when the configuration does not specify them.
const (
	defaultRateLimitMax    = 120
	defaultRateLimitWindow = time.Minute
)

// RateLimit enforces per-client-IP request limits using the backing store.
//
// The middleware extracts the client IP from the request context (set by
// ClientIPMiddleware) and calls RateLimitStore.IncrementAndCheck to
// atomically increment the counter and check against the limit.
//
// If no RateLimitStore is configured (e.g., during tests), the middleware
// passes through without rate limiting. On store errors it fails open: a
// rate limit store outage must not block all API traffic.
//
// On every request (allowed or not), the middleware sets standard rate limit
// response headers:
//   - X-RateLimit-Limit: The maximum number of requests in the window.
//   - X-RateLimit-Remaining: The number of requests remaining.
//   - X-RateLimit-Reset: Unix timestamp when the window resets.
//
// When rate limited, the middleware also sets:
//   - Retry-After: Seconds until the rate limit window resets.
func (s *Server) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.RateLimitStore == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := types.GetClientIP(r.Context())
		if ip == "" {
			next.ServeHTTP(w, r)
			return
		}

		limit, window := s.rateLimitSettings()

		result, err := s.RateLimitStore.IncrementAndCheck(r.Context(), ip, limit, window)
		if err != nil {
			s.Logger.Error("rate limit store error",
				slog.String("client_ip", ip),
				slog.String("error", err.Error()),
			)
			next.ServeHTTP(w, r)
			return
		}

		// Set rate limit headers on every response (allowed or denied).
		setRateLimitHeaders(w, limit, result)

		if !result.Allowed {
			s.Logger.Warn("rate limit exceeded",
				slog.String("client_ip", ip),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

			requestID := types.GetRequestID(r.Context())
			resp := APIErrorResponse{
				Error: ErrorDetail{
					Code:      string(types.ErrCodeRateLimit),
					Message:   "Rate limit exceeded. Please retry after the reset time.",
					RequestID: requestID,
				},
			}
			JSON(w, r, http.StatusTooManyRequests, resp)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitSettings resolves the configured limit and window, falling back
// to defaults when unset.
func (s *Server) rateLimitSettings() (int, time.Duration) {
	limit := defaultRateLimitMax
	window := defaultRateLimitWindow
	if s.Config != nil {
		if s.Config.RateLimit.Max > 0 {
			limit = s.Config.RateLimit.Max
		}
		if s.Config.RateLimit.Window > 0 {
			window = s.Config.RateLimit.Window
		}
	}
	return limit, window
}

// setRateLimitHeaders writes the standard X-RateLimit-* headers to the response.
func setRateLimitHeaders(w http.ResponseWriter, limit int, result RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
