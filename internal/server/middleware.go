package server

import (
	"net/http"
	"time"

	"github.com/agbru/picalc/internal/logging"
)

// loggingMiddleware logs one event per request once it completes.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.logger.Info("request completed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("query", r.URL.RawQuery),
			logging.String("remote", getClientIP(r)),
			logging.Duration("duration", time.Since(start)))
	}
}
