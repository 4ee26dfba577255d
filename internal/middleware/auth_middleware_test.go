package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ateliercucina/backend/internal/app/models"
	"github.com/ateliercucina/backend/internal/pkg/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	m := NewAuthMiddleware(jwtService)

	handlerReached := false
	router := gin.New()
	protected := router.Group("", m.JWTAuth())
	protected.POST("/bookings", func(c *gin.Context) {
		handlerReached = true
		c.JSON(http.StatusCreated, gin.H{"userId": c.MustGet(ContextUserID).(uuid.UUID).String()})
	})
	admin := protected.Group("/admin", m.RoleRequired(string(models.RoleAdmin)))
	admin.GET("/courses", func(c *gin.Context) {
		handlerReached = true
		c.Status(http.StatusOK)
	})

	return router, jwtService, &handlerReached
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, role models.Role) string {
	t.Helper()
	profile := &models.Profile{ID: uuid.New(), Email: "marie@example.com", Role: role}
	accessToken, _, _, _, err := jwtService.GenerateTokenPair(profile)
	require.NoError(t, err)
	return accessToken
}

func TestAnonymousBookingRejectedWithLoginURL(t *testing.T) {
	router, _, handlerReached := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *handlerReached, "handler must not run for anonymous callers")

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				LoginURL string `json:"loginUrl"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "AUTH_005", body.Error.Code)
	assert.Equal(t, "/login", body.Error.Details.LoginURL)
}

func TestAuthenticatedCallerPasses(t *testing.T) {
	router, jwtService, handlerReached := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, models.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, *handlerReached)
}

func TestInvalidTokenRejected(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRouteForbiddenForUserRole(t *testing.T) {
	router, jwtService, handlerReached := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/courses", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, models.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *handlerReached)
}

func TestAdminRouteAllowsAdminRole(t *testing.T) {
	router, jwtService, handlerReached := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/courses", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtService, models.RoleAdmin))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *handlerReached)
}
