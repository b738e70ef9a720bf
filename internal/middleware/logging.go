package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// SetLogger задаёт логгер для middleware.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		logger = l
	}
}

// WithLogging логирует метод, путь, статус, размер ответа и длительность запроса.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Infow("request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", status,
			"size", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
