// internal/middleware/logging.go

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware logs each request with the method, path, duration and,
// when the path addresses a game, the session id.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path
			method := r.Method

			next.ServeHTTP(w, r)

			fields := logrus.Fields{
				"method":   method,
				"path":     path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}
			if id := sessionFromPath(path); id != "" {
				fields["session"] = id
			}
			logger.WithFields(fields).Info("HTTP Request")
		})
	}
}

// LogWebSocketConnect logs a message when a WebSocket client connects.
// Typically called in your WebSocket handler once you accept an upgrade.
func LogWebSocketConnect(logger *logrus.Logger, remoteAddr string, path string) {
	logger.WithFields(wsFields(remoteAddr, path)).Info("WebSocket connected")
}

// LogWebSocketDisconnect logs a message when a WebSocket client disconnects.
func LogWebSocketDisconnect(logger *logrus.Logger, remoteAddr string, path string, err error) {
	fields := wsFields(remoteAddr, path)
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("WebSocket disconnected")
}

func wsFields(remoteAddr, path string) logrus.Fields {
	fields := logrus.Fields{
		"remote": remoteAddr,
		"path":   path,
	}
	if id := sessionFromPath(path); id != "" {
		fields["session"] = id
	}
	return fields
}

// sessionFromPath picks the session id out of /games/{id}/... and
// /games/ws/{id} paths. Ids are six characters of A-Z and 0-9; anything
// else (including the bare /games collection) yields "".
func sessionFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, "/games/")
	if !ok {
		return ""
	}
	rest = strings.TrimPrefix(rest, "ws/")
	id, _, _ := strings.Cut(rest, "/")
	if len(id) != 6 {
		return ""
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return ""
		}
	}
	return id
}
