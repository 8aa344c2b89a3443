package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/photowall/internal/auth"
	"github.com/Oxyrus/photowall/internal/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(tokens *auth.Tokens) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequireAdmin(tokens))
	r.GET("/secret", func(c *gin.Context) {
		claims, ok := middleware.ClaimsFrom(c)
		if !ok {
			c.String(http.StatusInternalServerError, "missing claims")
			return
		}
		c.String(http.StatusOK, claims.Subject)
	})
	return r
}

func TestRequireAdminRejectsMissingToken(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := newProtectedRouter(tokens)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/secret", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAdminRejectsInvalidToken(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := newProtectedRouter(tokens)

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAdminRejectsNonAdmin(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := newProtectedRouter(tokens)

	raw, err := tokens.Issue(7, false)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	r := newProtectedRouter(tokens)

	raw, err := tokens.Issue(7, true)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "7" {
		t.Fatalf("expected subject 7 from claims, got %q", rec.Body.String())
	}
}
