package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookiePolicy decides the attributes of the session cookie. Production
// deployments serve a cross-site client, so the cookie is SameSite=None and
// Secure there; everywhere else it is SameSite=Strict over plain HTTP.
type CookiePolicy struct {
	Name       string
	Production bool
	MaxAge     int // seconds
}

func (p CookiePolicy) sameSite() http.SameSite {
	if p.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

// Set writes token as an HTTP-only cookie.
func (p CookiePolicy) Set(c *gin.Context, token string) {
	c.SetSameSite(p.sameSite())
	c.SetCookie(p.Name, token, p.MaxAge, "/", "", p.Production, true)
}

// Clear expires the cookie. Attributes must match Set or browsers keep it.
func (p CookiePolicy) Clear(c *gin.Context) {
	c.SetSameSite(p.sameSite())
	c.SetCookie(p.Name, "", -1, "/", "", p.Production, true)
}

// Read returns the session token, or ErrMissingToken.
func (p CookiePolicy) Read(c *gin.Context) (string, error) {
	v, err := c.Cookie(p.Name)
	if err != nil || v == "" {
		return "", ErrMissingToken
	}
	return v, nil
}
