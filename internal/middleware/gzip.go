package middleware

import (
	"compress/gzip"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithGzip сжимает JSON/текстовые ответы, если клиент прислал Accept-Encoding: gzip.
func WithGzip(next http.Handler) http.Handler {
	return chimw.Compress(gzip.BestSpeed, "application/json", "text/plain")(next)
}
