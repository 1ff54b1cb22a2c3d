package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/geotag-backend-go/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signed(t *testing.T, secret string, method jwt.SigningMethod, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{"sub": "tester", "exp": exp.Unix()})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAuth(t *testing.T) {
	const secret = "0123456789abcdef"
	r := gin.New()
	r.GET("/x", Auth(secret), func(c *gin.Context) {
		claims := c.MustGet(ClaimsKey).(jwt.MapClaims)
		c.String(http.StatusOK, claims["sub"].(string))
	})

	valid := signed(t, secret, jwt.SigningMethodHS256, time.Now().Add(time.Hour))
	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "another-secret-123", jwt.SigningMethodHS256, time.Now().Add(time.Hour)), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, secret, jwt.SigningMethodHS256, time.Now().Add(-time.Hour)), http.StatusUnauthorized},
		{"wrong algorithm", "Bearer " + signed(t, secret, jwt.SigningMethodHS512, time.Now().Add(time.Hour)), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, tt.header)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.code, rec.Body.String())
			}
			if tt.code == http.StatusOK && rec.Body.String() != "tester" {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	r := gin.New()
	r.GET("/x", Auth(""), func(c *gin.Context) { c.Status(http.StatusOK) })
	if rec := serve(r, ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	if tok, ok := BearerToken("Bearer abc"); !ok || tok != "abc" {
		t.Errorf("got %q %v", tok, ok)
	}
	for _, h := range []string{"", "Bearer", "Bearer ", "bearer abc", "Bearer a b"} {
		if _, ok := BearerToken(h); ok {
			t.Errorf("BearerToken(%q) accepted", h)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request inside the window should be rejected")
	}
	if !rl.Allow("b") {
		t.Error("other clients are limited independently")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("request after the window should pass")
	}

	now = now.Add(2 * time.Minute)
	rl.Prune()
	if len(rl.requests) != 0 {
		t.Errorf("prune left %d clients", len(rl.requests))
	}
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	for _, ip := range []string{"a", "b", "c"} {
		rl.Allow(ip)
	}
	now = now.Add(30 * time.Second)
	rl.Allow("d")
	if len(rl.requests) != 4 {
		t.Fatalf("clients inside the window = %d, want 4", len(rl.requests))
	}

	now = now.Add(2 * time.Minute)
	rl.Allow("e")
	if len(rl.requests) != 1 {
		t.Errorf("clients after the window = %d, want 1", len(rl.requests))
	}
	if _, ok := rl.requests["e"]; !ok {
		t.Error("current client was swept")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(NewRateLimiter(1, time.Hour)), func(c *gin.Context) { c.Status(http.StatusOK) })

	if rec := serve(r, ""); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	if rec := serve(r, ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429", rec.Code)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(Logger(logging.New(logging.Config{Format: "json", Output: &buf})))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/x?a=1", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line); err != nil {
		t.Fatalf("log line %q: %v", buf.String(), err)
	}
	if line["path"] != "/x?a=1" || line["status"] != float64(http.StatusTeapot) {
		t.Errorf("log line = %v", line)
	}
}
