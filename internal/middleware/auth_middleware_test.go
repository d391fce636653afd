package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ruolez/inventory-update/internal/models"
	"github.com/ruolez/inventory-update/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuthService struct {
	sessions map[string]*models.Session
}

func (s *stubAuthService) Login(_ context.Context, _ string) (*services.LoginResult, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(_ string) error { return nil }

func (s *stubAuthService) GetSession(token string) (*models.Session, error) {
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, services.ErrSessionNotFound
}

func (s *stubAuthService) SweepExpiredSessions() (int64, error) { return 0, nil }

func newTestRouter(auth services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(SessionAuthMiddleware(auth))
	engine.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username": c.GetString(ContextUsername),
			"token":    SessionToken(c),
		})
	})
	return engine
}

func TestSessionAuthMiddleware(t *testing.T) {
	auth := &stubAuthService{sessions: map[string]*models.Session{
		"live-token": {Username: "jdoe", FullName: "Jane Doe"},
	}}
	engine := newTestRouter(auth)

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"bearer token", "Authorization", "Bearer live-token", http.StatusOK},
		{"session header", "X-Session-Token", "live-token", http.StatusOK},
		{"missing header", "", "", http.StatusUnauthorized},
		{"malformed header", "Authorization", "live-token", http.StatusUnauthorized},
		{"unknown token", "Authorization", "Bearer dead-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"username":"jdoe"`)
			}
		})
	}
}

func TestNoCacheMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(NoCacheMiddleware())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "no-store, no-cache, must-revalidate, max-age=0", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
}
