package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/VictoriaMetrics/metrics"
)

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	body   *bytes.Buffer
}

func (lrw *loggingResponseWriter) WriteHeader(status int) {
	lrw.status = status
	lrw.ResponseWriter.WriteHeader(status)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	lrw.body.Write(b)
	return lrw.ResponseWriter.Write(b)
}

func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var requestBody bytes.Buffer
		tee := io.TeeReader(r.Body, &requestBody)
		body, err := io.ReadAll(tee)
		if err != nil {
			logger.Error("Error reading request body", "error", err)
		}
		r.Body = io.NopCloser(&requestBody)

		lrw := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK, body: &bytes.Buffer{}}
		next.ServeHTTP(lrw, r)

		metrics.GetOrCreateCounter(fmt.Sprintf(`greenfield_mock_requests_total{pattern=%q,status="%d"}`, r.Pattern, lrw.status)).Inc()

		logger.Info("Handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"requestBody", string(body),
			"status", lrw.status,
			"responseBody", lrw.body.String(),
		)
	})
}

// tokenAuth rejects requests whose Authorization header does not carry the
// configured API key. An empty key disables the check.
func tokenAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" && r.Header.Get("Authorization") != "token "+apiKey {
			writeJSON(w, http.StatusForbidden, apiError{Code: "insufficient-api-permissions", Message: "The API key does not have the required permission"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
