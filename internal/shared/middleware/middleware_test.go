package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinebook/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	r.GET("/me", JWTAuthWithConfig(cfg), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	r.GET("/admin", JWTAuthWithConfig(cfg), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/optional", OptionalAuthWithConfig(cfg), func(c *gin.Context) {
		if IsAdmin(c) {
			c.String(http.StatusOK, "admin")
			return
		}
		c.String(http.StatusOK, "anon")
	})
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := newEngine()
	userID := uuid.New()
	exp := time.Now().Add(time.Hour).Unix()

	access := signed(t, jwt.MapClaims{"user_id": userID.String(), "role": "USER", "type": "access", "exp": exp})
	refresh := signed(t, jwt.MapClaims{"user_id": userID.String(), "role": "USER", "type": "refresh", "exp": exp})
	expired := signed(t, jwt.MapClaims{"user_id": userID.String(), "role": "USER", "type": "access", "exp": time.Now().Add(-time.Minute).Unix()})

	w := do(r, "/me", access)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", refresh).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", expired).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newEngine()
	exp := time.Now().Add(time.Hour).Unix()

	user := signed(t, jwt.MapClaims{"user_id": uuid.NewString(), "role": "USER", "type": "access", "exp": exp})
	admin := signed(t, jwt.MapClaims{"user_id": uuid.NewString(), "role": "ADMIN", "type": "access", "exp": exp})

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", user).Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", admin).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine()
	admin := signed(t, jwt.MapClaims{"user_id": uuid.NewString(), "role": "ADMIN", "type": "access", "exp": time.Now().Add(time.Hour).Unix()})

	assert.Equal(t, "anon", do(r, "/optional", "").Body.String())
	assert.Equal(t, "anon", do(r, "/optional", "broken").Body.String())
	assert.Equal(t, "admin", do(r, "/optional", admin).Body.String())
}
