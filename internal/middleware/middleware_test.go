package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLoggerSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Logger())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = c.GetString("request_id")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if seen == "" || w.Header().Get(RequestIDHeader) != seen {
		t.Errorf("request id = %q, header = %q", seen, w.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "given")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if seen != "given" {
		t.Errorf("caller id not kept: %q", seen)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Error("keys are independent")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Error("window should have expired")
	}

	now = now.Add(2 * time.Minute)
	rl.sweep()
	if rl.Size() != 0 {
		t.Errorf("Size() = %d after sweep, want 0", rl.Size())
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/train", RateLimit(NewRateLimiter(ctx, 1, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/train", nil))
		codes[i] = w.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func authRouter(secret string, require bool) *gin.Engine {
	r := gin.New()
	r.Use(Auth(secret))
	handlers := []gin.HandlerFunc{}
	if require {
		handlers = append(handlers, RequireUser())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UserKey))
	})
	r.GET("/me", handlers...)
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	key := []byte("s3cret")
	good, err := SignToken(Claims{
		Email:            "asha@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}, key)
	if err != nil {
		t.Fatal(err)
	}
	expired, _ := SignToken(Claims{
		Email:            "asha@example.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
	}, key)
	foreign, _ := SignToken(Claims{Email: "x@example.com"}, []byte("other"))

	r := authRouter("s3cret", false)

	if w := get(r, ""); w.Code != http.StatusOK || w.Body.String() != "" {
		t.Errorf("anonymous: %d %q", w.Code, w.Body.String())
	}
	if w := get(r, "Bearer "+good); w.Code != http.StatusOK || w.Body.String() != "asha@example.com" {
		t.Errorf("valid: %d %q", w.Code, w.Body.String())
	}
	for name, h := range map[string]string{
		"expired": "Bearer " + expired,
		"foreign": "Bearer " + foreign,
		"scheme":  "Basic " + good,
	} {
		if w := get(r, h); w.Code != http.StatusUnauthorized {
			t.Errorf("%s: code = %d", name, w.Code)
		}
	}

	required := authRouter("s3cret", true)
	if w := get(required, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("required anonymous: %d", w.Code)
	}
	if w := get(required, "Bearer "+good); w.Code != http.StatusOK {
		t.Errorf("required valid: %d", w.Code)
	}
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	r := authRouter("", false)
	if w := get(r, "Bearer garbage"); w.Code != http.StatusOK || w.Body.String() != "" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}
