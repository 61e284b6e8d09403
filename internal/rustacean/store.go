// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package rustacean

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence layer. Every method issues one statement.
type Store interface {
	LoadAll(ctx context.Context) ([]Rustacean, error)
	Find(ctx context.Context, id int64) (*Rustacean, error)
	Create(ctx context.Context, n NewRustacean) (*Rustacean, error)
	Save(ctx context.Context, r Rustacean) (*Rustacean, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db}
}

func (s *GormStore) LoadAll(ctx context.Context) ([]Rustacean, error) {
	out := []Rustacean{}
	err := s.db.WithContext(ctx).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, classify("load_all", err)
	}
	return out, nil
}

func (s *GormStore) Find(ctx context.Context, id int64) (*Rustacean, error) {
	var r Rustacean
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if err != nil {
		return nil, notFoundMsg(classify("find", err), id)
	}
	return &r, nil
}

func (s *GormStore) Create(ctx context.Context, n NewRustacean) (*Rustacean, error) {
	r := Rustacean{Name: n.Name, Email: n.Email}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, classify("create", err)
	}
	return &r, nil
}

// Save overwrites name and email of the row with r.ID in a single
// UPDATE ... RETURNING; id and created_at are left untouched.
func (s *GormStore) Save(ctx context.Context, r Rustacean) (*Rustacean, error) {
	out := Rustacean{ID: r.ID}
	res := s.db.WithContext(ctx).
		Model(&out).
		Clauses(clause.Returning{}).
		Updates(map[string]any{"name": r.Name, "email": r.Email})
	if res.Error != nil {
		return nil, classify("save", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFoundMsg(classify("save", gorm.ErrRecordNotFound), r.ID)
	}
	return &out, nil
}

// Delete reports how many rows were removed; zero is not an error.
func (s *GormStore) Delete(ctx context.Context, id int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Rustacean{})
	if res.Error != nil {
		return 0, classify("delete", res.Error)
	}
	return res.RowsAffected, nil
}

func notFoundMsg(err error, id int64) error {
	if e, ok := err.(*Error); ok && e.Kind == KindNotFound {
		e.Msg = fmt.Sprintf("rustacean %d not found", id)
	}
	return err
}
