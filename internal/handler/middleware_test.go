package handler_test

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/microblog/internal/handler"
	"github.com/msomdec/microblog/internal/service"
)

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret, time.Hour)
	token, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = handler.UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	for _, scheme := range []string{"Bearer", "bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", scheme+" "+token)
		w := httptest.NewRecorder()

		handler.RequireAuth(tokens, inner).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", scheme, w.Code)
		}
		if gotUser != "alice" {
			t.Fatalf("%s: expected user alice, got %q", scheme, gotUser)
		}
	}
}

func TestRequireAuth_Rejected(t *testing.T) {
	tokens := service.NewTokenService(testJWTSecret, time.Hour)
	valid, err := tokens.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired, err := service.NewTokenService(testJWTSecret, time.Hour,
		service.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }),
	).Issue("alice")
	if err != nil {
		t.Fatalf("Issue expired: %v", err)
	}
	foreign, err := service.NewTokenService("some-other-secret-that-is-long-enough", time.Hour).Issue("alice")
	if err != nil {
		t.Fatalf("Issue foreign: %v", err)
	}

	parts := strings.Split(valid, ".")
	forged := base64.RawURLEncoding.EncodeToString(
		[]byte(fmt.Sprintf(`{"sub":"mallory","exp":%d}`, time.Now().Add(time.Hour).Unix())),
	)
	tamperedPayload := parts[0] + "." + forged + "." + parts[2]

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + valid},
		{"no token", "Bearer "},
		{"malformed", "Bearer invalid.jwt.token"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
		{"tampered payload", "Bearer " + tamperedPayload},
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler.RequireAuth(tokens, inner).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Fatalf("expected JSON error body, got Content-Type %q", ct)
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called for preflight")
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	handler.CORS(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "DELETE") {
		t.Fatalf("expected DELETE in allowed methods, got %q", got)
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handler.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	handler.RequestLogger(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get("X-Request-ID")
	if id == "" || id != seen {
		t.Fatalf("expected generated id in header and context, got header %q context %q", id, seen)
	}
	if w.Code != http.StatusTeapot {
		t.Fatalf("expected status to pass through, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	handler.RequestLogger(inner).ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected incoming id to be reused, got %q", got)
	}
}
