// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package router

import (
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"rustaceans/internal/api/rustaceans"
	"rustaceans/internal/respond"
	"rustaceans/internal/rustacean"
)

// Authenticator gates a handler behind credentials.
type Authenticator interface {
	Require(next http.Handler) http.Handler
}

// New wires the route table:
//
//	GET    /rustaceans       → List
//	GET    /rustaceans/{id}  → View
//	POST   /rustaceans       → Create
//	PUT    /rustaceans/{id}  → Update
//	DELETE /rustaceans/{id}  → Delete
//
// Anything else, including a non-integer {id}, a non-JSON body on POST or
// PUT, or a known path with an unsupported method, is a 404 "Not found!"
// whether or not the request carries credentials. Authentication runs only
// once a route matched.
func New(store rustacean.Store, authn Authenticator) http.Handler {
	mux := http.NewServeMux()
	h := rustaceans.NewHandler(store)

	const (
		withID = 1 << iota
		jsonBody
	)
	route := func(pattern string, fn http.HandlerFunc, match int) {
		var next http.Handler = authn.Require(fn)
		if match&jsonBody != 0 {
			next = matchJSON(next)
		}
		if match&withID != 0 {
			next = matchID(next)
		}
		mux.Handle(pattern, next)
	}

	route("GET /rustaceans", h.List, 0)
	route("POST /rustaceans", h.Create, jsonBody)
	route("GET /rustaceans/{id}", h.View, withID)
	route("PUT /rustaceans/{id}", h.Update, withID|jsonBody)
	route("DELETE /rustaceans/{id}", h.Delete, withID)

	// Catch-all also absorbs method mismatches that ServeMux would report as 405.
	mux.HandleFunc("/", respond.NotFound)

	return RequestIDMiddleware(DebugLoggerMiddleware(mux))
}

// matchID treats a non-integer {id} as an unmatched route.
func matchID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := rustaceans.PathID(r); !ok {
			respond.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// matchJSON treats a declared non-JSON Content-Type as an unmatched route.
// A request without Content-Type still matches.
func matchJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get(echo.HeaderContentType); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || mediaType != echo.MIMEApplicationJSON {
				respond.NotFound(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
