package repository

import (
	"context"
	"time"

	"github.com/talkincode/storefront/internal/domain"
	"gorm.io/gorm"
)

// UserRepository handles identity persistence
type UserRepository interface {
	// GetByID loads the user with its profile, if any
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// Register creates the user and its empty profile in a single
	// transaction. On success u.Profile is set.
	Register(ctx context.Context, u *domain.User) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err, "get user by username")
	}
	return &u, nil
}

func (r *GormUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, translate(err, "check username")
	}
	return count > 0, nil
}

func (r *GormUserRepository) Register(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u.Profile = nil
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		profile := &domain.Profile{UserID: u.ID}
		if err := tx.Omit("User").Create(profile).Error; err != nil {
			return err
		}
		u.Profile = profile
		return nil
	})
	if err != nil {
		u.ID = 0
		u.Profile = nil
	}
	return translate(err, "register user")
}

func (r *GormUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("last_login", at).Error
	return translate(err, "update last login")
}
