package preview

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/logfields"
)

// withMiddleware wraps next with request logging and panic recovery.
func withMiddleware(logger *slog.Logger, adapter *errors.HTTPErrorAdapter, next http.Handler) http.Handler {
	return logRequests(logger, recoverPanics(logger, adapter, next))
}

// logRequests logs every request at debug level; failed requests at warn.
func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelDebug
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.LogAttrs(r.Context(), level, "HTTP request",
			logfields.Method(r.Method),
			logfields.Path(r.URL.Path),
			logfields.Status(rec.status),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000),
			logfields.RemoteAddr(r.RemoteAddr))
	})
}

func recoverPanics(logger *slog.Logger, adapter *errors.HTTPErrorAdapter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("HTTP handler panic",
					slog.Any("panic", v),
					logfields.Path(r.URL.Path),
					logfields.Method(r.Method))
				adapter.WriteErrorResponse(w, r, errors.InternalError("internal server error").
					WithContext("path", r.URL.Path).
					Build())
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
