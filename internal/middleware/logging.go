package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLog logs one line per request. Health and metrics probes are
// skipped; 5xx responses log at error level, 4xx at warn.
func AccessLog(log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipAccessLog(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			level := zapcore.InfoLevel
			switch {
			case rec.statusCode >= 500:
				level = zapcore.ErrorLevel
			case rec.statusCode >= 400:
				level = zapcore.WarnLevel
			}
			if ce := log.Check(level, "request"); ce != nil {
				ce.Write(
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", rec.statusCode),
					zap.Int("bytes", rec.bytesWritten),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", RequestIDFromContext(r.Context())),
					zap.String("remote", r.RemoteAddr),
				)
			}
		})
	}
}

func skipAccessLog(path string) bool {
	path = strings.TrimPrefix(path, "/api")
	return path == "/metrics" || strings.HasPrefix(path, "/health")
}
