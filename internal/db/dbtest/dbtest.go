// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbtest opens throwaway migrated sqlite databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rustaceans/internal/config"
	"rustaceans/internal/db"
)

// Config returns a pool config for a fresh private in-memory database.
// A single connection keeps the in-memory database alive and serialized.
func Config() config.Database {
	return config.Database{
		Driver:       config.DriverSQLite,
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
}

// Open connects to a fresh database without migrating it.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	conn, err := db.Connect(Config())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

// Migrated connects to a fresh database and applies every migration.
func Migrated(t testing.TB) *gorm.DB {
	t.Helper()
	conn := Open(t)
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}
