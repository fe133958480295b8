// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"wedsite/internal/engine"
	"wedsite/internal/handlers"
	"wedsite/internal/middleware"
	"wedsite/internal/models"
	"wedsite/internal/session"
)

const testCSRFToken = "test-csrf-token"

// roleLoader signs every request in with a fixed role, or none if empty.
type roleLoader struct {
	role models.Role
}

func (l roleLoader) Get(context.Context, *http.Request) (*session.Data, error) {
	if l.role == "" {
		return nil, nil
	}
	return &session.Data{UserID: uuid.New(), Email: "u@example.com", Role: l.role}, nil
}

// newTestRouter builds the router around handlers without backing stores.
// Only routes that stop in middleware, or need no store, are exercised.
func newTestRouter(t *testing.T, role models.Role) chi.Router {
	t.Helper()
	limiter := middleware.NewRateLimiter(1, time.Minute)
	t.Cleanup(limiter.Stop)

	return New(Config{
		Sessions:     roleLoader{role: role},
		LoginLimiter: limiter,
		ImageSources: []string{"https://cdn.example.com"},
	}, Handlers{
		Auth:    handlers.NewAuth(nil, nil),
		Partner: handlers.NewPartner(nil, nil, nil),
		Editor:  handlers.NewEditor(nil, nil, nil, engine.New(), nil),
		Media:   handlers.NewMedia(nil, nil, nil, nil, 0),
		Admin:   handlers.NewAdmin(nil, nil, nil, nil, nil),
		Public:  handlers.NewPublic(engine.New(), nil, nil, nil),
	})
}

// withCSRF attaches a matching CSRF cookie and header.
func withCSRF(r *http.Request) *http.Request {
	r.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: testCSRFToken})
	r.Header.Set(middleware.CSRFHeaderName, testCSRFToken)
	return r
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRouteAccess(t *testing.T) {
	tests := []struct {
		name   string
		role   models.Role
		method string
		path   string
		want   int
	}{
		{"health", "", "GET", "/health", http.StatusOK},
		{"templates are public", "", "GET", "/templates", http.StatusOK},
		{"me needs a session", "", "GET", "/auth/me", http.StatusUnauthorized},
		{"me with session", models.RoleCouple, "GET", "/auth/me", http.StatusOK},
		{"partner portal anonymous", "", "GET", "/partner/clients", http.StatusUnauthorized},
		{"partner portal as couple", models.RoleCouple, "GET", "/partner/clients", http.StatusForbidden},
		{"admin as partner", models.RolePartner, "GET", "/admin/requests", http.StatusForbidden},
		{"admin cards as couple", models.RoleCouple, "POST", "/admin/cards", http.StatusForbidden},
		{"weddings anonymous", "", "GET", "/weddings", http.StatusUnauthorized},
		{"media upload without storage", models.RoleCouple, "POST", "/media", http.StatusServiceUnavailable},
		{"unknown route", "", "GET", "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, tt.role)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, withCSRF(httptest.NewRequest(tt.method, tt.path, nil)))
			if rec.Code != tt.want {
				t.Errorf("%s %s: got %d, want %d (%s)", tt.method, tt.path, rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestStateChangesRequireCSRF(t *testing.T) {
	r := newTestRouter(t, models.RolePartner)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/partner/clients", strings.NewReader("{}")))
	if rec.Code != http.StatusForbidden {
		t.Errorf("without token: got %d, want 403", rec.Code)
	}

	// Public pages are outside the CSRF group and issue no token cookie.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/templates", nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CSRFCookieName {
			t.Error("public route set a CSRF cookie")
		}
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	r := newTestRouter(t, "")

	codes := make([]int, 2)
	for i := range codes {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, withCSRF(httptest.NewRequest("POST", "/auth/login", strings.NewReader("not json"))))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusBadRequest || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [400 429]", codes)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	r := newTestRouter(t, "")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "https://cdn.example.com") {
		t.Errorf("CSP %q does not allow the media CDN", csp)
	}
}
