// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rustacean

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Rustacean is a persisted record. ID and CreatedAt are assigned by the
// database on insert and never change afterwards.
type Rustacean struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	CreatedAt Timestamp `gorm:"autoCreateTime:false;default:CURRENT_TIMESTAMP;<-:create" json:"created_at"`
}

func (Rustacean) TableName() string { return "rustaceans" }

// NewRustacean is the creation payload.
type NewRustacean struct {
	Name  string `json:"name"  validate:"required,notblank,max=255"`
	Email string `json:"email" validate:"required,max=255,email"`
}

// Timestamp is a UTC time that also scans from the textual forms sqlite
// hands back when a column's declared type is lost (RETURNING, expressions).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("rustacean: cannot scan %T into Timestamp", src)
	}
}

func (t *Timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("rustacean: unrecognised timestamp %q", s)
}

func (t Timestamp) Value() (driver.Value, error) {
	return t.Time, nil
}
