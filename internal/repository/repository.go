package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a record does not exist or is outside the
	// caller's visible set.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Repositories bundles every repository used by the HTTP layer
type Repositories struct {
	Categories CategoryRepository
	Products   ProductRepository
	Services   ServiceRepository
	Profiles   ProfileRepository
	Users      UserRepository
}

// NewGormRepositories builds the GORM implementation of every repository
func NewGormRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Categories: NewGormCategoryRepository(db),
		Products:   NewGormProductRepository(db),
		Services:   NewGormServiceRepository(db),
		Profiles:   NewGormProfileRepository(db),
		Users:      NewGormUserRepository(db),
	}
}

// translate maps GORM sentinels onto repository sentinels and wraps the rest
func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return errors.Wrap(err, msg)
}
