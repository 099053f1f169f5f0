package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/payments"
	"github.com/phillip/pet-adoption-go/store"
	"github.com/phillip/pet-adoption-go/store/memory"
	"github.com/phillip/pet-adoption-go/utils"
)

func testContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var out utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestStoreFail(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound, utils.ErrCodeNotFound},
		{"wrapped not found", errors.Join(errors.New("lookup"), store.ErrNotFound), http.StatusNotFound, utils.ErrCodeNotFound},
		{"deadline", context.DeadlineExceeded, http.StatusServiceUnavailable, utils.ErrCodeUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError, utils.ErrCodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := testContext(t)
			storeFail(c, tc.err, "Pet not found.", "could not fetch pet")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, envelope(t, w).Code)
		})
	}
}

func TestPaymentFail(t *testing.T) {
	cases := map[error]int{
		payments.ErrInvalidAmount:        http.StatusBadRequest,
		payments.ErrMissingIntent:        http.StatusBadRequest,
		payments.ErrAmountMismatch:       http.StatusBadRequest,
		payments.ErrProcessorRejected:    http.StatusBadRequest,
		payments.ErrUnknownIntent:        http.StatusNotFound,
		payments.ErrIntentConsumed:       http.StatusConflict,
		payments.ErrProcessorUnavailable: http.StatusServiceUnavailable,
		errors.New("disk full"):          http.StatusInternalServerError,
	}
	for err, status := range cases {
		c, w := testContext(t)
		paymentFail(c, err)
		assert.Equal(t, status, w.Code, err.Error())
	}
}

func TestMayManage(t *testing.T) {
	stores := memory.New()
	require.NoError(t, stores.Users.EnsureRole(context.Background(), "admin@example.com", models.RoleAdmin))
	env := &Env{Stores: stores, Timeout: time.Second}

	c, _ := testContext(t)
	c.Set(utils.CtxUserEmail, "Owner@Example.com")
	assert.True(t, env.mayManage(c, "owner@example.com"))

	c, _ = testContext(t)
	c.Set(utils.CtxUserEmail, "admin@example.com")
	assert.True(t, env.mayManage(c, "owner@example.com"))

	c, w := testContext(t)
	c.Set(utils.CtxUserEmail, "stranger@example.com")
	assert.False(t, env.mayManage(c, "owner@example.com"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNotModified(t *testing.T) {
	id := primitive.NewObjectID()
	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	c, w := testContext(t)
	assert.False(t, notModified(c, id, updated))
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, updated.Format(http.TimeFormat), w.Header().Get("Last-Modified"))

	c, _ = testContext(t)
	c.Request.Header.Set("If-None-Match", etag)
	assert.True(t, notModified(c, id, updated))
}

func TestUploadImage_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/uploads/images", UploadImage(&Env{Timeout: time.Second}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/uploads/images", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type downImages struct{}

func (downImages) Upload(context.Context, io.Reader) (string, error) {
	return "", errors.New("cloudinary: 500 internal")
}

func (downImages) Delete(context.Context, string) error { return nil }

func TestUploadImage_ProviderFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/uploads/images", UploadImage(&Env{Images: downImages{}, Timeout: time.Second}))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "cat.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := envelope(t, w)
	assert.Equal(t, utils.ErrCodeUnavailable, body.Code)
	assert.Equal(t, "image upload failed: cat.png", body.Message)
}

func TestParseID(t *testing.T) {
	c, w := testContext(t)
	c.Params = gin.Params{{Key: "id", Value: "123"}}
	_, ok := parseID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID format", envelope(t, w).Message)

	c, _ = testContext(t)
	want := primitive.NewObjectID()
	c.Params = gin.Params{{Key: "id", Value: want.Hex()}}
	got, ok := parseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
