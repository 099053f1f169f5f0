package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// CoerceAge turns whatever the client sent as an age into a non-negative
// whole number. Unparseable input becomes 0.
func CoerceAge(v any) int {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// Pagination parses page and limit query values. Values that are missing,
// malformed or below 1 fall back to the defaults; limit is capped.
func Pagination(pageRaw, limitRaw string) (page, limit int64) {
	page = positiveOr(pageRaw, DefaultPage)
	limit = positiveOr(limitRaw, DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

func positiveOr(raw string, def int64) int64 {
	n, err := cast.ToInt64E(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ParseAmount accepts a JSON number or numeric string.
func ParseAmount(v any) (float64, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	if v == nil {
		return 0, fmt.Errorf("amount is required")
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount must be a number")
	}
	return f, nil
}
