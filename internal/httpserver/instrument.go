package httpserver

import (
	"net/http"
	"time"

	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Instrument attaches log to every request context and writes one access
// log line per request. Headers and bodies are never logged.
func Instrument(log zerolog.Logger, h http.Handler) http.Handler {
	withLogger := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r.WithContext(logutil.WithLogger(r.Context(), *hlog.FromRequest(r))))
	})
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		lvl := zerolog.InfoLevel
		if status >= http.StatusInternalServerError {
			lvl = zerolog.ErrorLevel
		}
		hlog.FromRequest(r).WithLevel(lvl).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request served")
	})
	return hlog.NewHandler(log)(access(withLogger))
}
