// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package respond

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// NotFoundMessage is the body of every unmatched route.
const NotFoundMessage = "Not found!"

func WriteJSON(w http.ResponseWriter, status int, v interface{}) error {
	WriteHeaders(w)
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}

// NoContent writes a bodyless 204.
func NoContent(w http.ResponseWriter) {
	WriteHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

// NotFound writes the catch-all 404 body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, NotFoundMessage)
}
