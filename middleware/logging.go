// Package middleware holds the gin middleware shared by every route: request
// correlation, access logging, panic recovery, metrics, rate limiting,
// security headers and the access guard.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phillip/pet-adoption-go/utils"
)

// maxQueryLogLength caps the raw query string written to access logs.
const maxQueryLogLength = 2048

// RequestID reuses an inbound X-Request-ID or generates a UUIDv4, and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(utils.RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(utils.CtxRequestID, rid)
		c.Writer.Header().Set(utils.RequestIDHeader, rid)
		c.Next()
	}
}

// Logger stores a request-scoped zerolog logger in the context and writes one
// access log line per request: error for 5xx or gin errors, warn for 4xx,
// info otherwise.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid, _ := c.Get(utils.CtxRequestID)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength).
			Logger()
		c.Set(utils.CtxLogger, &l)

		c.Next()

		// The guard runs after this middleware, so the caller is only known now.
		email, _ := c.Get(utils.CtxUserEmail)
		ev := l.With().
			Str("user", asString(email)).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery turns a panic into the JSON 500 envelope and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid, _ := c.Get(utils.CtxRequestID)
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", asString(rid)).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header(utils.RequestIDHeader, asString(rid))
					c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{
						RequestID: asString(rid),
						Code:      utils.ErrCodeInternal,
						Message:   "internal server error",
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// BodyLimit caps request bodies at n bytes. Routes listed in overrides (by
// registered path) get their own cap.
func BodyLimit(n int64, overrides map[string]int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := n
		if v, ok := overrides[c.FullPath()]; ok {
			limit = v
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
