package urllog

import (
	"log/slog"
	"net/http"
	"time"
)

// CustomLoggerMiddleware logs one line per request with the method, URL,
// caller address and handling duration. It complements chi's RequestID
// middleware rather than replacing it.
func CustomLoggerMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request handled",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("remote", r.RemoteAddr),
				slog.Duration("took", time.Since(start)),
			)
		})
	}
}
