package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/config"
)

func TestFail_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Writer.Header().Set(RequestIDHeader, "rid-1")

	Fail(c, http.StatusNotFound, ErrCodeNotFound, "pet not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{RequestID: "rid-1", Code: ErrCodeNotFound, Message: "pet not found"}, body)
}

func TestGenerateETag(t *testing.T) {
	id := primitive.NewObjectID()
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	a := GenerateETag(id, ts)
	assert.Equal(t, a, GenerateETag(id, ts))
	assert.NotEqual(t, a, GenerateETag(id, ts.Add(time.Second)))
	assert.NotEqual(t, a, GenerateETag(primitive.NewObjectID(), ts))
	assert.Regexp(t, `^W/"[0-9a-f]{40}"$`, a)

	assert.True(t, ETagMatches(a, a))
	assert.True(t, ETagMatches(`"x", `+a, a))
	assert.True(t, ETagMatches(a[2:], a))
	assert.True(t, ETagMatches("*", a))
	assert.False(t, ETagMatches("", a))
	assert.False(t, ETagMatches(`W/"other"`, a))
}

func TestParseFlexibleTime(t *testing.T) {
	cases := map[string]time.Time{
		"2024-06-01T12:30:00Z": time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC),
		"2024-06-01":           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		"2024-06-01 08:15":     time.Date(2024, 6, 1, 8, 15, 0, 0, time.UTC),
		" 2024-06-01 08:15:09": time.Date(2024, 6, 1, 8, 15, 9, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseFlexibleTime(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}

	_, err := ParseFlexibleTime("01/06/2024")
	assert.Error(t, err)
}

func TestCoerceAge(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{float64(3), 3},
		{3.9, 3},
		{"7", 7},
		{" 4 ", 4},
		{"2.5", 2},
		{"abc", 0},
		{-2.0, 0},
		{"-5", 0},
		{nil, 0},
		{"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CoerceAge(tc.in), "%v", tc.in)
	}
}

func TestPagination(t *testing.T) {
	cases := []struct {
		page, limit         string
		wantPage, wantLimit int64
	}{
		{"", "", 1, 10},
		{"2", "5", 2, 5},
		{"0", "-1", 1, 10},
		{"x", "y", 1, 10},
		{"3", "1000", 3, MaxLimit},
	}
	for _, tc := range cases {
		p, l := Pagination(tc.page, tc.limit)
		assert.Equal(t, tc.wantPage, p)
		assert.Equal(t, tc.wantLimit, l)
	}
}

func TestExtractPublicID(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1234567890/pets/abc123.jpg": "pets/abc123",
		"https://res.cloudinary.com/demo/image/upload/pets/sub/abc.png":            "pets/sub/abc",
		"https://res.cloudinary.com/demo/image/upload/abc":                         "abc",
	}
	for in, want := range cases {
		got, err := extractPublicID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := extractPublicID("https://i.ibb.co/abc/dog.jpg")
	assert.ErrorIs(t, err, ErrForeignImage)

	_, err = extractPublicID("https://res.cloudinary.com/demo/image/upload/")
	assert.Error(t, err)
}

func TestMailer_Send(t *testing.T) {
	var got emailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewMailer(config.MailConfig{APIURL: srv.URL, APIKey: "Zoho-enczapikey k", From: "noreply@example.com", ToName: "Friend"})
	subject, body := AdoptionDecisionEmail("Rex <3", true)
	require.NoError(t, m.Send(context.Background(), "a@example.com", subject, body))

	assert.Equal(t, "Zoho-enczapikey k", auth)
	assert.Equal(t, "noreply@example.com", got.From.Address)
	require.Len(t, got.To, 1)
	assert.Equal(t, "a@example.com", got.To[0].Email.Address)
	assert.Equal(t, "Friend", got.To[0].Email.Name)
	assert.Contains(t, got.HtmlBody, "Rex &lt;3")
}

func TestMailer_Errors(t *testing.T) {
	err := NewMailer(config.MailConfig{}).Send(context.Background(), "a@example.com", "s", "b")
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	err = NewMailer(config.MailConfig{APIURL: srv.URL, APIKey: "k", From: "f@example.com"}).
		Send(context.Background(), "a@example.com", "s", "b")
	assert.ErrorContains(t, err, "401")
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[any]float64{25.5: 25.5, "10": 10, " 3.25 ": 3.25, float64(0): 0} {
		got, err := ParseAmount(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, want, got)
	}
	for _, in := range []any{nil, "ten", map[string]any{}} {
		_, err := ParseAmount(in)
		assert.Error(t, err, "%v", in)
	}
}
