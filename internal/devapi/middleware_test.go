package devapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(t *testing.T, mw func(*Service) gin.HandlerFunc) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := NewService(NewRepository(), NewTokenIssuer("middleware-test-secret", time.Hour), slog.New(slog.DiscardHandler))
	r := gin.New()
	r.Use(mw(svc))
	r.GET("/test", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok})
	})
	return r, svc
}

func issueFor(t *testing.T, svc *Service, userName string) string {
	t.Helper()
	u, err := svc.repo.CreateUser(user{Email: userName + "@example.com", UserName: userName})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	token, err := svc.tokens.Issue(u.ID, u.UserName)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, svc := newAuthRouter(t, AuthMiddleware)
	token := issueFor(t, svc, "ada")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["user_id"] != float64(1) {
		t.Errorf("Expected user_id to be 1, got %v", response["user_id"])
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	r, _ := newAuthRouter(t, AuthMiddleware)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Authorization %q: Expected status 401, got %d", header, w.Code)
		}
	}
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	r, svc := newAuthRouter(t, AuthMiddleware)

	// signed correctly but for an account that does not exist
	token, err := svc.tokens.Issue(42, "ghost")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r, svc := newAuthRouter(t, OptionalAuthMiddleware)
	token := issueFor(t, svc, "ada")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 without a token, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"authenticated":false`) {
		t.Errorf("Expected anonymous request, got %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"authenticated":true`) {
		t.Errorf("Expected authenticated request, got %s", w.Body.String())
	}
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(logger))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	r.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "nope"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?page=2", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log line: %v", err)
	}
	if entry["level"] != "INFO" {
		t.Errorf("Expected INFO level, got %v", entry["level"])
	}
	if entry["query"] != "page=2" {
		t.Errorf("Expected query page=2, got %v", entry["query"])
	}
	if entry["request_id"] != w.Header().Get("X-Request-ID") {
		t.Errorf("Expected request_id to match response header, got %v", entry["request_id"])
	}
	if size, _ := entry["response_size"].(float64); int(size) != w.Body.Len() {
		t.Errorf("Expected response_size %d, got %v", w.Body.Len(), entry["response_size"])
	}

	buf.Reset()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	if !strings.Contains(buf.String(), `"level":"WARN"`) {
		t.Errorf("Expected WARN level for 404, got %s", buf.String())
	}
}

func TestCORS_Preflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("Expected CORS Allow-Origin header")
	}
	if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("Expected CORS Allow-Credentials header")
	}
}
