// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rustaceans

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"rustaceans/internal/auth"
	"rustaceans/internal/respond"
	"rustaceans/internal/rustacean"
)

// MaxBodyBytes caps POST and PUT bodies.
const MaxBodyBytes = 1 << 20

type Handler struct {
	Store rustacean.Store
}

func NewHandler(store rustacean.Store) *Handler {
	return &Handler{Store: store}
}

// PathID parses the {id} path segment.
func PathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// List handles GET /rustaceans
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.Store.LoadAll(r.Context())
	if err != nil {
		respond.WriteError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, all)
}

// View handles GET /rustaceans/{id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		respond.NotFound(w, r)
		return
	}

	rec, err := h.Store.Find(r.Context(), id)
	if err != nil {
		respond.WriteError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// Create handles POST /rustaceans
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in rustacean.NewRustacean
	if err := decodeJSON(w, r, &in); err != nil {
		respond.WriteError(w, r, err)
		return
	}
	if err := validateBody(&in); err != nil {
		respond.WriteError(w, r, err)
		return
	}

	rec, err := h.Store.Create(r.Context(), in)
	if err != nil {
		respond.WriteError(w, r, err)
		return
	}

	zap.L().Info("rustacean created",
		zap.Int64("id", rec.ID),
		zap.String("user", auth.UserFromContext(r.Context())),
	)
	respond.WriteJSON(w, http.StatusOK, rec)
}

// Update handles PUT /rustaceans/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		respond.NotFound(w, r)
		return
	}

	var in UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.WriteError(w, r, err)
		return
	}
	if in.ID != 0 && in.ID != id {
		respond.WriteError(w, r, rustacean.Validation(
			fmt.Sprintf("body id %d does not match path id %d", in.ID, id)))
		return
	}

	if err := validateBody(&in); err != nil {
		respond.WriteError(w, r, err)
		return
	}

	saved, err := h.Store.Save(r.Context(), rustacean.Rustacean{ID: id, Name: in.Name, Email: in.Email})
	if err != nil {
		respond.WriteError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, saved)
}

// Delete handles DELETE /rustaceans/{id}. Deleting a missing id is a 204.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := PathID(r)
	if !ok {
		respond.NotFound(w, r)
		return
	}

	n, err := h.Store.Delete(r.Context(), id)
	if err != nil {
		respond.WriteError(w, r, err)
		return
	}

	zap.L().Debug("rustacean deleted",
		zap.Int64("id", id),
		zap.Int64("rows", n),
		zap.String("user", auth.UserFromContext(r.Context())),
	)
	respond.NoContent(w)
}

// decodeJSON reads exactly one JSON object with no unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return rustacean.Validation("request body too large")
		}
		if errors.Is(err, io.EOF) {
			return rustacean.Validation("request body is empty")
		}
		return rustacean.Validation("invalid JSON body: " + err.Error())
	}
	if dec.More() {
		return rustacean.Validation("request body must contain a single JSON object")
	}
	return nil
}
