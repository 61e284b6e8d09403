// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rustaceans/internal/config"
	"rustaceans/internal/respond"
)

const Realm = "rustaceans"

type contextKey string

const userKey contextKey = "user"

var (
	errMissing   = errors.New("authorization header missing")
	errScheme    = errors.New("authorization scheme is not basic")
	errEncoding  = errors.New("credentials are not valid base64")
	errMalformed = errors.New("credentials have no colon separator")
	errMismatch  = errors.New("credentials do not match")
)

// Basic checks requests against one fixed username/password pair.
type Basic struct {
	username [32]byte
	password [32]byte
}

func NewBasic(cfg config.Auth) *Basic {
	return &Basic{
		username: sha256.Sum256([]byte(cfg.Username)),
		password: sha256.Sum256([]byte(cfg.Password)),
	}
}

// Check validates an Authorization header value and returns the username.
// Callers must not distinguish between the returned errors in responses.
func (b *Basic) Check(header string) (string, error) {
	if header == "" {
		return "", errMissing
	}

	scheme, encoded, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "basic") {
		return "", errScheme
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", errEncoding
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", errMalformed
	}

	// hashing first keeps both comparisons fixed-length
	u := sha256.Sum256([]byte(username))
	p := sha256.Sum256([]byte(password))
	userOK := subtle.ConstantTimeCompare(u[:], b.username[:])
	passOK := subtle.ConstantTimeCompare(p[:], b.password[:])
	if userOK&passOK != 1 {
		return "", errMismatch
	}
	return username, nil
}

// Require rejects unauthenticated requests with 401 before next runs.
func (b *Basic) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := b.Check(r.Header.Get(echo.HeaderAuthorization))
		if err != nil {
			zap.L().Debug("authentication failed",
				zap.String("path", r.URL.Path),
				zap.String("request_id", respond.RequestIDFrom(r.Context())),
				zap.Error(err),
			)
			w.Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="`+Realm+`"`)
			respond.WriteJSON(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated username, if any.
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(userKey).(string)
	return user
}
