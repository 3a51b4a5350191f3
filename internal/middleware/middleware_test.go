package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"swiftcare/internal/model"
	"swiftcare/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedRouter(jwtUtil *utils.JWTUtil, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{JWTAuthMiddleware(jwtUtil)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet(AuthUserKey),
			"role":    c.MustGet(AuthRoleKey),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("test-secret", 60)
	r := protectedRouter(jwtUtil)

	token, err := jwtUtil.GenerateToken("user-1", model.RolePatient)
	require.NoError(t, err)

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")

	w = get(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "Basic "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// token signed with a different key
	otherUtil := utils.NewJWTUtil("other-secret", 60)
	forged, err := otherUtil.GenerateToken("user-1", model.RoleAdmin)
	require.NoError(t, err)
	w = get(r, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleMiddleware(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("test-secret", 60)
	r := protectedRouter(jwtUtil, AdminMiddleware())

	patientToken, err := jwtUtil.GenerateToken("user-1", model.RolePatient)
	require.NoError(t, err)
	adminToken, err := jwtUtil.GenerateToken("user-2", model.RoleAdmin)
	require.NoError(t, err)

	w := get(r, "Bearer "+patientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = get(r, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDoctorMiddlewareAllowsAdmins(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("test-secret", 60)
	r := protectedRouter(jwtUtil, DoctorMiddleware())

	for role, want := range map[string]int{
		model.RoleDoctor:  http.StatusOK,
		model.RoleAdmin:   http.StatusOK,
		model.RolePatient: http.StatusForbidden,
	} {
		token, err := jwtUtil.GenerateToken("user-1", role)
		require.NoError(t, err)
		assert.Equal(t, want, get(r, "Bearer "+token).Code, "role %s", role)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	// bucket exhausted
	assert.False(t, rl.Allow("10.0.0.1"))

	// other clients have their own bucket
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimitMiddleware(NewRateLimiter(1, 1)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
