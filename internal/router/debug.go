// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"rustaceans/internal/respond"
)

type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
		rw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// DebugLoggerMiddleware writes one access-log line per request.
func DebugLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w}
		start := time.Now()

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		query := r.URL.RawQuery
		if query != "" {
			query = "?" + query
		}

		status := rw.status
		if status == 0 {
			status = http.StatusOK
		}

		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("host", r.Host),
			zap.String("path", r.URL.Path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Int("size", rw.size),
			zap.Duration("duration", duration),
			zap.String("request_id", respond.RequestIDFrom(r.Context())),
		)
	})
}
