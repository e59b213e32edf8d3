package auth

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/user"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}

func guardedRouter(tokens *TokenService) *gin.Engine {
	r := gin.New()
	r.GET("/private", Required(tokens), func(c *gin.Context) {
		ident, ok := FromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, ident)
	})
	return r
}

func TestRequired_NoToken(t *testing.T) {
	r := guardedRouter(NewTokenService("secret", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d body=%s, want 403", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"error":"No token provided."}` {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestRequired_BadToken(t *testing.T) {
	r := guardedRouter(NewTokenService("secret", time.Hour))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s, want 401", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"error":"Failed to authenticate token."}` {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestRequired_AcceptsRawAndBearer(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	r := guardedRouter(tokens)

	token, err := tokens.Issue(&user.User{ID: 1, Firstname: "a", Lastname: "b", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, header := range []string{token, "Bearer " + token} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("header %q: status=%d body=%s", header, w.Code, w.Body.String())
		}
	}
}
