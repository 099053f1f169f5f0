package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Gin context keys shared by middleware and controllers.
const (
	RequestIDHeader = "X-Request-ID"

	CtxRequestID = "requestID"
	CtxLogger    = "logger"
	CtxUserEmail = "userEmail"
	CtxUserID    = "userID"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)

// ErrorResponse is the error envelope returned by every route.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Fail aborts with the error envelope. Server errors are logged.
func Fail(c *gin.Context, status int, code, msg string) {
	FailErr(c, status, code, msg, nil)
}

// FailErr is Fail with the underlying cause attached to the log line.
func FailErr(c *gin.Context, status int, code, msg string, err error) {
	if status >= http.StatusInternalServerError {
		ev := LoggerFrom(c).Error().Int("status", status).Str("code", code)
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg(msg)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get(RequestIDHeader),
		Code:      code,
		Message:   msg,
	})
}

// LoggerFrom returns the request-scoped logger, or the global one.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(CtxLogger); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}
