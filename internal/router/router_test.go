// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rustaceans/internal/auth"
	"rustaceans/internal/config"
	"rustaceans/internal/db/dbtest"
	"rustaceans/internal/router"
	"rustaceans/internal/rustacean"
)

// CountingStore fails every call and records that it was reached.
type CountingStore struct {
	calls int
}

func (m *CountingStore) LoadAll(ctx context.Context) ([]rustacean.Rustacean, error) {
	m.calls++
	return []rustacean.Rustacean{}, nil
}

func (m *CountingStore) Find(ctx context.Context, id int64) (*rustacean.Rustacean, error) {
	m.calls++
	return nil, &rustacean.Error{Kind: rustacean.KindNotFound, Msg: "not found"}
}

func (m *CountingStore) Create(ctx context.Context, n rustacean.NewRustacean) (*rustacean.Rustacean, error) {
	m.calls++
	return nil, &rustacean.Error{Kind: rustacean.KindInternal, Msg: "boom"}
}

func (m *CountingStore) Save(ctx context.Context, r rustacean.Rustacean) (*rustacean.Rustacean, error) {
	m.calls++
	return nil, &rustacean.Error{Kind: rustacean.KindNotFound, Msg: "not found"}
}

func (m *CountingStore) Delete(ctx context.Context, id int64) (int64, error) {
	m.calls++
	return 0, nil
}

var creds = config.Auth{Username: "foo", Password: "bar"}

func newRouter(store rustacean.Store) http.Handler {
	return router.New(store, auth.NewBasic(creds))
}

func do(h http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.SetBasicAuth(creds.Username, creds.Password)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ───────────────────────────────────────────────────────────
// ROUTING TESTS
// ───────────────────────────────────────────────────────────

func TestRouter_UnauthenticatedNeverReachesStore(t *testing.T) {
	store := &CountingStore{}
	e := newRouter(store)

	routes := []struct{ method, path, body string }{
		{"GET", "/rustaceans", ""},
		{"GET", "/rustaceans/1", ""},
		{"POST", "/rustaceans", `{"name":"Alice","email":"a@example.com"}`},
		{"PUT", "/rustaceans/1", `{"id":1,"name":"Alice","email":"a@example.com"}`},
		{"DELETE", "/rustaceans/1", ""},
	}

	for _, rt := range routes {
		rec := do(e, rt.method, rt.path, rt.body, false)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", rt.method, rt.path, rec.Code)
		}

		req := httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
		req.SetBasicAuth("foo", "wrong")
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s with bad password: expected 401, got %d", rt.method, rt.path, rec.Code)
		}
	}

	if store.calls != 0 {
		t.Fatalf("store reached %d times without credentials", store.calls)
	}
}

func TestRouter_AuthenticatedReachesStore(t *testing.T) {
	store := &CountingStore{}
	e := newRouter(store)

	rec := do(e, "GET", "/rustaceans", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = do(e, "DELETE", "/rustaceans/3", "", true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if store.calls != 2 {
		t.Fatalf("expected 2 store calls, got %d", store.calls)
	}
}

func TestRouter_NotFound(t *testing.T) {
	store := &CountingStore{}
	e := newRouter(store)

	cases := []struct{ method, path string }{
		{"GET", "/"},
		{"GET", "/nothing/here"},
		{"GET", "/rustaceans/abc"},
		{"DELETE", "/rustaceans/1.5"},
		{"GET", "/rustaceans/1/extra"},
		{"PATCH", "/rustaceans/1"},
		{"DELETE", "/rustaceans"},
	}

	for _, c := range cases {
		for _, authed := range []bool{false, true} {
			rec := do(e, c.method, c.path, "", authed)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("%s %s (auth=%v): expected 404, got %d", c.method, c.path, authed, rec.Code)
			}
			if rec.Body.String() != "\"Not found!\"\n" {
				t.Fatalf("%s %s: unexpected body %q", c.method, c.path, rec.Body.String())
			}
		}
	}

	if store.calls != 0 {
		t.Fatalf("unmatched routes reached the store %d times", store.calls)
	}
}

func TestRouter_NonJSONBodyNotFound(t *testing.T) {
	store := &CountingStore{}
	e := newRouter(store)

	cases := []struct{ method, path, contentType string }{
		{"POST", "/rustaceans", "text/plain"},
		{"POST", "/rustaceans", "application/x-www-form-urlencoded"},
		{"PUT", "/rustaceans/1", "text/plain; charset=utf-8"},
		{"PUT", "/rustaceans/1", "not a media type;;"},
	}

	for _, c := range cases {
		for _, authed := range []bool{false, true} {
			req := httptest.NewRequest(c.method, c.path, strings.NewReader(`{"id":1,"name":"Alice","email":"a@example.com"}`))
			req.Header.Set("Content-Type", c.contentType)
			if authed {
				req.SetBasicAuth(creds.Username, creds.Password)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("%s %s %q (auth=%v): expected 404, got %d", c.method, c.path, c.contentType, authed, rec.Code)
			}
			if rec.Body.String() != "\"Not found!\"\n" {
				t.Fatalf("%s %s: unexpected body %q", c.method, c.path, rec.Body.String())
			}
		}
	}

	if store.calls != 0 {
		t.Fatalf("non-JSON bodies reached the store %d times", store.calls)
	}

	// parameters on a JSON media type still match
	req := httptest.NewRequest("POST", "/rustaceans", strings.NewReader(`{"name":"Alice","email":"a@example.com"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.SetBasicAuth(creds.Username, creds.Password)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code == http.StatusNotFound || store.calls != 1 {
		t.Fatalf("JSON with charset should reach the store, got %d after %d calls", rec.Code, store.calls)
	}
}

func TestRouter_RequestID(t *testing.T) {
	e := newRouter(&CountingStore{})

	rec := do(e, "GET", "/nope", "", false)
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest("GET", "/nope", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

// ───────────────────────────────────────────────────────────
// END TO END (sqlite)
// ───────────────────────────────────────────────────────────

func TestRouter_Lifecycle(t *testing.T) {
	e := newRouter(rustacean.NewGormStore(dbtest.Migrated(t)))

	rec := do(e, "POST", "/rustaceans", `{"name":"Alice","email":"a@example.com"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var created rustacean.Rustacean
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.CreatedAt.IsZero() {
		t.Fatalf("expected assigned id and timestamp: %s", rec.Body.String())
	}
	path := fmt.Sprintf("/rustaceans/%d", created.ID)

	rec = do(e, "GET", path, "", true)
	var found rustacean.Rustacean
	json.Unmarshal(rec.Body.Bytes(), &found)
	if rec.Code != http.StatusOK || found.Name != "Alice" || found.Email != "a@example.com" {
		t.Fatalf("view: unexpected %d %s", rec.Code, rec.Body.String())
	}

	body := fmt.Sprintf(`{"id":%d,"name":"Alice","email":"alice@example.com","created_at":%q}`,
		created.ID, created.CreatedAt.Format("2006-01-02T15:04:05"))
	rec = do(e, "PUT", path, body, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, "GET", path, "", true)
	var updated rustacean.Rustacean
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.Email != "alice@example.com" || updated.ID != created.ID {
		t.Fatalf("update not visible: %s", rec.Body.String())
	}
	if !updated.CreatedAt.Equal(created.CreatedAt.Time) {
		t.Fatalf("created_at changed: %v vs %v", updated.CreatedAt, created.CreatedAt)
	}

	rec = do(e, "POST", "/rustaceans", `{"name":"Bob","email":"bob@example.com"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("second create: %d", rec.Code)
	}
	rec = do(e, "POST", "/rustaceans", `{"name":"Bobby","email":"bob@example.com"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("shared email: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, "GET", "/rustaceans", "", true)
	var all []rustacean.Rustacean
	json.Unmarshal(rec.Body.Bytes(), &all)
	if len(all) != 3 || all[0].ID >= all[1].ID || all[1].ID >= all[2].ID {
		t.Fatalf("list: unexpected %s", rec.Body.String())
	}

	rec = do(e, "DELETE", path, "", true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = do(e, "GET", path, "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("view after delete: expected 404, got %d", rec.Code)
	}
	rec = do(e, "DELETE", path, "", true)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("second delete: expected 204, got %d", rec.Code)
	}
	rec = do(e, "PUT", path, `{"name":"Alice","email":"alice@example.com"}`, true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update after delete: expected 404, got %d", rec.Code)
	}
}
