package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/phillip/pet-adoption-go/auth"
	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/utils"
)

// ctxCurrentUser caches the caller's user document once a capability loaded it.
const ctxCurrentUser = "currentUser"

// defaultLookupTimeout bounds the caller lookup when no timeout is given.
const defaultLookupTimeout = 10 * time.Second

// Denial is why a capability refused a request.
type Denial struct {
	Status  int
	Code    string
	Message string
	Err     error // cause, logged for 5xx only
}

// Capability is one condition a request must satisfy. It returns nil to
// allow the request.
type Capability func(c *gin.Context) *Denial

// Requires evaluates capabilities in order and stops at the first denial
// without calling the handler.
func Requires(caps ...Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, capability := range caps {
			if d := capability(c); d != nil {
				guardDenials.WithLabelValues(strconv.Itoa(d.Status)).Inc()
				utils.FailErr(c, d.Status, d.Code, d.Message, d.Err)
				return
			}
		}
		c.Next()
	}
}

var (
	denyMissingToken = &Denial{Status: http.StatusUnauthorized, Code: utils.ErrCodeUnauthorized, Message: "Unauthorized access: No token provided."}
	denyInvalidToken = &Denial{Status: http.StatusForbidden, Code: utils.ErrCodeForbidden, Message: "Forbidden: Invalid or expired token."}
	denyRole         = &Denial{Status: http.StatusForbidden, Code: utils.ErrCodeForbidden, Message: "forbidden access"}
)

// Authenticated verifies the session cookie: 401 when it is absent, 403 when
// it does not verify. The token's email is stored in the context.
func Authenticated(tokens *auth.TokenService, cookie auth.CookiePolicy) Capability {
	return func(c *gin.Context) *Denial {
		raw, err := cookie.Read(c)
		if err != nil {
			return denyMissingToken
		}
		claims, err := tokens.Verify(raw)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				return denyMissingToken
			}
			return denyInvalidToken
		}
		c.Set(utils.CtxUserEmail, claims.Email)
		c.Set(utils.CtxUserID, claims.Email)
		return nil
	}
}

// HasRole loads the authenticated caller, bounded by timeout, and checks
// role. It must follow Authenticated. Only the decision reaches the client,
// never the user.
func HasRole(users store.UserStore, role string, timeout time.Duration) Capability {
	return func(c *gin.Context) *Denial {
		u, d := loadCaller(c, users, timeout)
		if d != nil {
			return d
		}
		if u == nil || u.Role != role {
			return denyRole
		}
		return nil
	}
}

// SelfOrRole allows callers whose email equals the named path parameter, and
// callers holding role.
func SelfOrRole(param string, users store.UserStore, role string, timeout time.Duration) Capability {
	check := HasRole(users, role, timeout)
	return func(c *gin.Context) *Denial {
		if strings.EqualFold(c.Param(param), c.GetString(utils.CtxUserEmail)) {
			return nil
		}
		return check(c)
	}
}

// CurrentUser returns the caller's user document, loading it on first use.
// It returns nil without error for a token whose email has no user record.
func CurrentUser(c *gin.Context, users store.UserStore, timeout time.Duration) (*models.User, error) {
	u, d := loadCaller(c, users, timeout)
	if d != nil {
		return nil, d.Err
	}
	return u, nil
}

func loadCaller(c *gin.Context, users store.UserStore, timeout time.Duration) (*models.User, *Denial) {
	if v, ok := c.Get(ctxCurrentUser); ok {
		u, _ := v.(*models.User)
		return u, nil
	}
	email := c.GetString(utils.CtxUserEmail)
	if email == "" {
		return nil, denyMissingToken
	}
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	u, err := users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		u = nil
	case errors.Is(err, context.DeadlineExceeded):
		return nil, &Denial{
			Status:  http.StatusServiceUnavailable,
			Code:    utils.ErrCodeUnavailable,
			Message: "request timed out",
			Err:     err,
		}
	case err != nil:
		return nil, &Denial{
			Status:  http.StatusInternalServerError,
			Code:    utils.ErrCodeInternal,
			Message: "could not load user",
			Err:     err,
		}
	}
	c.Set(ctxCurrentUser, u)
	return u, nil
}
