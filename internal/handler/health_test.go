package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestHealthzThroughMiddleware(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/healthz", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Request-ID", "health-check-1")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	wantHeaders := map[string]string{
		"Content-Type":                "application/json",
		"X-Content-Type-Options":      "nosniff",
		"X-Frame-Options":             "DENY",
		"Referrer-Policy":             "no-referrer",
		"Access-Control-Allow-Origin": "*",
		"X-Request-ID":                "health-check-1",
	}
	for name, want := range wantHeaders {
		if got := resp.Header.Get(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 1 || body["status"] != "ok" {
		t.Fatalf(`expected {"status":"ok"}, got %v`, body)
	}
}

func TestHealthzOtherMethodsFallThrough(t *testing.T) {
	app := newTestApp(t)

	var body errorBody
	resp := app.do(t, http.MethodPost, "/healthz", "", nil, &body)
	if resp.StatusCode != http.StatusNotFound || body.Path != "/healthz" {
		t.Fatalf("expected 404 envelope for /healthz, got %d %+v", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a generated X-Request-ID")
	}
}
