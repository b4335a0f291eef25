package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/microblog/internal/handler"
	"github.com/msomdec/microblog/internal/repository/sqlite"
	"github.com/msomdec/microblog/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testApp struct {
	srv    *httptest.Server
	tokens *service.TokenService
	auth   *service.AuthService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hasher := service.NewBcryptHasher(4)
	tokens := service.NewTokenService(testJWTSecret, time.Hour)
	users := service.NewUserService(db, hasher)
	auth := service.NewAuthService(users, db, hasher, tokens)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, users, service.NewStreamService(db), service.NewPostService(db), tokens)

	srv := httptest.NewServer(handler.Chain(mux))
	t.Cleanup(srv.Close)
	return &testApp{srv: srv, tokens: tokens, auth: auth}
}

// do sends a JSON request and decodes the JSON response into out when out
// is non-nil.
func (a *testApp) do(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, path, err)
		}
	}
	return resp
}

// signUpAndIn registers username and returns a bearer token for it.
func (a *testApp) signUpAndIn(t *testing.T, username string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d", username, resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	resp = a.do(t, http.MethodPost, "/api/auth/signin", "", map[string]string{
		"username": username,
		"password": "password123",
	}, &tok)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signin %s: expected 200, got %d", username, resp.StatusCode)
	}
	return tok.AccessToken
}

type errorBody struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors"`
}
