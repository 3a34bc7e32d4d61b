package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// BanChecker is the part of the security engine the ban gate needs.
type BanChecker interface {
	IsIPBanned(ctx context.Context, ip string) bool
}

// IPBan rejects requests from banned addresses at the top of the
// pipeline, before any handler work happens.
func IPBan(checker BanChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if checker.IsIPBanned(r.Context(), ClientIP(r)) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP picks the requester address from the usual proxy headers,
// falling back to the socket peer.
func ClientIP(r *http.Request) string {
	for _, header := range []string{"X-Forwarded-For", "X-Real-IP"} {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For may hold a chain; the client is first.
		first := strings.TrimSpace(strings.Split(value, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
