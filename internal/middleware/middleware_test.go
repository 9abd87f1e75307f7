package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-assignment-api/internal/auth"
	"github.com/yukikurage/task-assignment-api/internal/constants"
	"github.com/yukikurage/task-assignment-api/internal/services"
	"github.com/yukikurage/task-assignment-api/internal/testutil"
)

type stubAuthenticator struct {
	identities map[string]auth.Identity
	err        error
}

func (s stubAuthenticator) Authenticate(token string) (auth.Identity, error) {
	if s.err != nil {
		return auth.Anonymous, s.err
	}
	identity, ok := s.identities[token]
	if !ok {
		return auth.Anonymous, services.ErrInvalidToken
	}
	return identity, nil
}

func newEngine(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares...)
	r.GET("/whoami", func(c *gin.Context) {
		identity := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "is_admin": identity.IsAdmin})
	})
	return r
}

func doRequest(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	authn := stubAuthenticator{identities: map[string]auth.Identity{
		"good": {UserID: 4, IsAdmin: true},
	}}
	r := newEngine(RequireAuth(authn, testutil.NewLogger()))

	w := doRequest(r, "GET", "/whoami", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, decode(t, w), "error")

	w = doRequest(r, "GET", "/whoami", map[string]string{"Authorization": "Basic good"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "GET", "/whoami", map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_TOKEN", decode(t, w)["code"])

	w = doRequest(r, "GET", "/whoami", map[string]string{"Authorization": "bearer good"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(4), body["user_id"])
	assert.Equal(t, true, body["is_admin"])
}

func TestRequireAuth_InternalErrorIsHidden(t *testing.T) {
	r := newEngine(RequireAuth(stubAuthenticator{err: errors.New("db is down")}, testutil.NewLogger()))

	w := doRequest(r, "GET", "/whoami", map[string]string{"Authorization": "Bearer any"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db is down")
}

func TestOptionalAuth(t *testing.T) {
	authn := stubAuthenticator{identities: map[string]auth.Identity{"good": {UserID: 9}}}
	r := newEngine(OptionalAuth(authn, testutil.NewLogger()))

	w := doRequest(r, "GET", "/whoami", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["user_id"])

	w = doRequest(r, "GET", "/whoami", map[string]string{"Authorization": "Bearer good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(9), decode(t, w)["user_id"])

	w = doRequest(r, "GET", "/whoami", map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := doRequest(r, "GET", "/whoami", nil)
	generated := w.Header().Get(constants.HeaderRequestID)
	assert.Len(t, generated, 36)

	incoming := "3f1c1d8e-8a0b-4d7e-9a63-2d1b0f6c9e55"
	w = doRequest(r, "GET", "/whoami", map[string]string{constants.HeaderRequestID: incoming})
	assert.Equal(t, incoming, w.Header().Get(constants.HeaderRequestID))

	w = doRequest(r, "GET", "/whoami", map[string]string{constants.HeaderRequestID: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(constants.HeaderRequestID))
}

func TestRequireIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/tasks/:task_id/", RequireIDParam("task_id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"task_id": GetIDParam(c, "task_id")})
	})

	w := doRequest(r, "GET", "/tasks/12/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), decode(t, w)["task_id"])

	w = doRequest(r, "GET", "/tasks/9223372036854775807/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/tasks/abc/", "/tasks/0/", "/tasks/-3/", "/tasks/9223372036854775808/", "/tasks/18446744073709551615/"} {
		w = doRequest(r, "GET", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

// fakeScripter counts script runs per key the way the redis script does.
type fakeScripter struct {
	redis.Scripter
	counts map[string]int64
	err    error
}

func (f *fakeScripter) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	if f.err != nil {
		return redis.NewCmdResult(nil, f.err)
	}
	f.counts[keys[0]]++
	return redis.NewCmdResult(f.counts[keys[0]], nil)
}

func TestRateLimit(t *testing.T) {
	rdb := &fakeScripter{counts: map[string]int64{}}
	r := newEngine(RateLimit(rdb, 2, time.Minute, KeyByIP(), testutil.NewLogger()))

	for i := 0; i < 2; i++ {
		w := doRequest(r, "GET", "/whoami", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doRequest(r, "GET", "/whoami", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, decode(t, w), "error")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rdb := &fakeScripter{counts: map[string]int64{}, err: errors.New("connection refused")}
	r := newEngine(RateLimit(rdb, 1, time.Minute, KeyByIP(), testutil.NewLogger()))

	for i := 0; i < 3; i++ {
		w := doRequest(r, "GET", "/whoami", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(RateLimit(nil, 1, time.Minute, KeyByIP(), testutil.NewLogger()))

	for i := 0; i < 3; i++ {
		w := doRequest(r, "GET", "/whoami", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	log, hook := logrustest.NewNullLogger()
	authn := stubAuthenticator{identities: map[string]auth.Identity{"good": {UserID: 5}}}
	r := newEngine(RequestID(), RequestLogger(log), RequireAuth(authn, log))

	doRequest(r, "GET", "/whoami", map[string]string{"Authorization": "Bearer good"})
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, 200, entry.Data["status"])
	assert.Equal(t, uint64(5), entry.Data["user_id"])
	assert.NotEmpty(t, entry.Data["request_id"])

	doRequest(r, "GET", "/whoami", nil)
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, 401, entry.Data["status"])
}
