// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rustaceans/internal/respond"
)

const maxRequestIDLen = 128

// RequestIDMiddleware reuses the caller's X-Request-Id or mints one, and
// echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(echo.HeaderXRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = respond.NewRequestID()
		}

		w.Header().Set(echo.HeaderXRequestID, id)
		next.ServeHTTP(w, r.WithContext(respond.WithRequestID(r.Context(), id)))
	})
}
