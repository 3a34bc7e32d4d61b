package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/donan22/shortlink-service/internal/domain"
)

type stubBanChecker struct {
	banned map[string]bool
}

func (s *stubBanChecker) IsIPBanned(_ context.Context, ip string) bool {
	return s.banned[ip]
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.0.2.1:34567",
			want:       "192.0.2.1",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.2, 10.0.0.3"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "garbage forwarded header falls through",
			remoteAddr: "192.0.2.1:80",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "192.0.2.1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIPBanMiddleware(t *testing.T) {
	checker := &stubBanChecker{banned: map[string]bool{"203.0.113.7": true}}
	handler := IPBan(checker)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/go/AbC12345", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("banned IP got status %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/go/AbC12345", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clean IP got status %d, want 204", rec.Code)
	}
}

func TestAdminAuthRoundTrip(t *testing.T) {
	const secret = "test-secret"

	var gotActor domain.Actor
	handler := AdminAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := domain.ActorFrom(r.Context())
		if !ok {
			t.Error("actor missing from context")
		}
		gotActor = actor
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := IssueAdminToken("admin", secret, time.Hour)
	if err != nil {
		t.Fatalf("IssueAdminToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/links/top", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("got status %d, want 204", rec.Code)
	}
	if gotActor.Username != "admin" || gotActor.ID != "admin" {
		t.Fatalf("unexpected actor: %+v", gotActor)
	}
}

func TestAdminAuthRejections(t *testing.T) {
	const secret = "test-secret"
	handler := AdminAuth(secret)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	expired, err := IssueAdminToken("admin", secret, -time.Minute)
	if err != nil {
		t.Fatalf("IssueAdminToken: %v", err)
	}
	wrongKey, err := IssueAdminToken("admin", "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("IssueAdminToken: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/links/top", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("got status %d, want 401", rec.Code)
			}
		})
	}
}
