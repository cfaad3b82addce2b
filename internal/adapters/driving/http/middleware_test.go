package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminMiddleware_TokenRequired(t *testing.T) {
	m := NewAdminMiddleware("secret", nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := m.Require(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "secret", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"correct token", "Bearer secret", http.StatusNoContent},
		{"case-insensitive scheme", "bearer secret", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/index", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestAdminMiddleware_OpenWhenTokenUnset(t *testing.T) {
	m := NewAdminMiddleware("", nil)
	handler := m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("POST", "/api/v1/index", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected open access without token, got %d", rec.Code)
	}
}

func TestAdminRoutesRejectAnonymous(t *testing.T) {
	f := newServerFixture("secret")

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/index"},
		{"GET", "/api/v1/index/triggers/trig-1"},
		{"DELETE", "/api/v1/index"},
		{"GET", "/api/v1/settings/search"},
		{"PUT", "/api/v1/settings/search"},
	}

	for _, route := range routes {
		rec := f.do(route.method, route.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestPublicRoutesSkipAdminCheck(t *testing.T) {
	f := newServerFixture("secret")

	rec := f.do("POST", "/api/v1/search", "", SearchRequest{Query: "hello"})
	if rec.Code != http.StatusOK {
		t.Errorf("expected search to be public, got %d", rec.Code)
	}

	rec = f.do("GET", "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected health to be public, got %d", rec.Code)
	}
}
