package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/auth"
	"github.com/phillip/pet-adoption-go/middleware"
	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/payments"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/utils"
)

// Notifier delivers an HTML message to one address.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Env carries the process-scoped collaborators every handler is built from.
type Env struct {
	Stores  store.Stores
	Tokens  *auth.TokenService
	Cookie  auth.CookiePolicy
	Bridge  *payments.Bridge
	Images  utils.ImageStore // nil when uploads are not configured
	Mailer  Notifier         // nil when mail is not configured
	Timeout time.Duration
}

// reqCtx bounds store and processor calls by the per-request timeout.
func (e *Env) reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), e.Timeout)
}

// parseID validates a path parameter as a 24-char hex ObjectID. It writes
// the 400 itself.
func parseID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid ID format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// storeFail maps a store error onto the envelope.
func storeFail(c *gin.Context, err error, notFound, failed string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Fail(c, http.StatusNotFound, utils.ErrCodeNotFound, notFound)
	case errors.Is(err, context.DeadlineExceeded):
		utils.FailErr(c, http.StatusServiceUnavailable, utils.ErrCodeUnavailable, "request timed out", err)
	default:
		utils.FailErr(c, http.StatusInternalServerError, utils.ErrCodeInternal, failed, err)
	}
}

// callerEmail is the email of the authenticated caller, if any.
func callerEmail(c *gin.Context) string { return c.GetString(utils.CtxUserEmail) }

// mayManage reports whether the caller owns the document or is an admin. On
// false the response has already been written.
func (e *Env) mayManage(c *gin.Context, ownerEmail string) bool {
	email := callerEmail(c)
	if email != "" && strings.EqualFold(email, ownerEmail) {
		return true
	}
	u, err := middleware.CurrentUser(c, e.Stores.Users, e.Timeout)
	if err != nil {
		storeFail(c, err, "", "could not load user")
		return false
	}
	if u.IsAdmin() {
		return true
	}
	utils.Fail(c, http.StatusForbidden, utils.ErrCodeForbidden, "forbidden access")
	return false
}

// notModified writes ETag/Last-Modified and answers 304 when the client's
// copy is current.
func notModified(c *gin.Context, id primitive.ObjectID, updatedAt time.Time) bool {
	etag := utils.GenerateETag(id, updatedAt)
	c.Header("ETag", etag)
	if !updatedAt.IsZero() {
		c.Header("Last-Modified", updatedAt.UTC().Format(http.TimeFormat))
	}
	if utils.ETagMatches(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// background runs fn after the response, detached from request cancellation.
func background(c *gin.Context, what string, fn func(ctx context.Context) error) {
	lg := utils.LoggerFrom(c)
	ctx := context.WithoutCancel(c.Request.Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			lg.Warn().Err(err).Msg(what)
		}
	}()
}

// dropImage removes a hosted image once its document is gone.
func (e *Env) dropImage(c *gin.Context, url string) {
	if e.Images == nil || url == "" {
		return
	}
	background(c, "image cleanup failed", func(ctx context.Context) error {
		err := e.Images.Delete(ctx, url)
		if errors.Is(err, utils.ErrForeignImage) {
			return nil
		}
		return err
	})
}

// parseOptionalTime parses s when set. ok is false after a 400 was written.
func parseOptionalTime(c *gin.Context, field string, s *string) (t *time.Time, ok bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, true
	}
	parsed, err := utils.ParseFlexibleTime(*s)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, utils.ErrCodeBadRequest, "invalid "+field+" format, use RFC3339 or YYYY-MM-DD")
		return nil, false
	}
	return &parsed, true
}

// mayManagePet loads the pet and applies the owner-or-admin rule.
func (e *Env) mayManagePet(ctx context.Context, c *gin.Context, id primitive.ObjectID) bool {
	pet, err := e.Stores.Pets.Get(ctx, id)
	if err != nil {
		storeFail(c, err, "Pet not found.", "could not fetch pet")
		return false
	}
	return e.mayManage(c, pet.Email)
}

// mayManageCampaign is mayManagePet for donation campaigns.
func (e *Env) mayManageCampaign(ctx context.Context, c *gin.Context, id primitive.ObjectID) (*models.DonationCampaign, bool) {
	dc, err := e.Stores.Campaigns.Get(ctx, id)
	if err != nil {
		storeFail(c, err, "Donation not found", "could not fetch donation")
		return nil, false
	}
	return dc, e.mayManage(c, dc.Email)
}
