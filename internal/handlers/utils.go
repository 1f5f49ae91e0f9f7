package handlers

import (
	"net/http"
	"strings"
)

// extractCookieToken extracts a named cookie value from "Cookie" header, or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// seatTokenFromRequest finds the seat token in, by precedence, the
// Authorization bearer header, the seat_token cookie, or the token query
// parameter (the only option for browser WebSocket clients).
func seatTokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if tok := extractCookieToken(r.Header.Get("Cookie"), "seat_token"); tok != "" {
		return tok
	}
	return r.URL.Query().Get("token")
}
