// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package respond

import (
	"net/http"

	"go.uber.org/zap"

	"rustaceans/internal/rustacean"
)

// StatusOf maps an error to the HTTP status it should be reported with.
func StatusOf(err error) int {
	switch rustacean.KindOf(err) {
	case rustacean.KindNotFound:
		return http.StatusNotFound
	case rustacean.KindConflict:
		return http.StatusConflict
	case rustacean.KindConnection:
		return http.StatusServiceUnavailable
	case rustacean.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteError reports err as a JSON string with its mapped status.
// Server-side faults are logged; client errors are not.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	WriteJSON(w, status, err.Error())
}
