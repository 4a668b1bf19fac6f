package repository

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/talkincode/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileScope restricts profile access to one owner. A zero OwnerID
// grants access to every profile (staff).
type ProfileScope struct {
	OwnerID int64
}

// ProfileRepository handles profile persistence. Every lookup is executed
// inside a scope, so records outside it surface as ErrNotFound.
type ProfileRepository interface {
	List(ctx context.Context, scope ProfileScope, page Page) ([]domain.Profile, int64, error)
	Get(ctx context.Context, scope ProfileScope, id int64) (*domain.Profile, error)
	// GetOrCreate returns the user's profile, creating it when missing.
	// Concurrent first calls for the same user yield the same profile.
	GetOrCreate(ctx context.Context, userID int64) (*domain.Profile, error)
	// Create returns ErrDuplicate when the user already owns a profile
	Create(ctx context.Context, p *domain.Profile) error
	Update(ctx context.Context, p *domain.Profile) error
	Delete(ctx context.Context, scope ProfileScope, id int64) error
}

type GormProfileRepository struct {
	db     *gorm.DB
	create singleflight.Group
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) scoped(ctx context.Context, scope ProfileScope) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&domain.Profile{})
	if scope.OwnerID != 0 {
		db = db.Where("profiles.user_id = ?", scope.OwnerID)
	}
	return db
}

func (r *GormProfileRepository) List(ctx context.Context, scope ProfileScope, page Page) ([]domain.Profile, int64, error) {
	db := r.scoped(ctx, scope)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count profiles")
	}

	var rows []domain.Profile
	if err := page.apply(db.Order("profiles.id ASC")).Preload("User").Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list profiles")
	}
	return rows, total, nil
}

func (r *GormProfileRepository) Get(ctx context.Context, scope ProfileScope, id int64) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.scoped(ctx, scope).Preload("User").Where("profiles.id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "get profile")
	}
	return &p, nil
}

func (r *GormProfileRepository) byUser(ctx context.Context, userID int64) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err, "get profile by user")
	}
	return &p, nil
}

func (r *GormProfileRepository) GetOrCreate(ctx context.Context, userID int64) (*domain.Profile, error) {
	v, err, _ := r.create.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		// the result is shared with every waiting caller, so it must not
		// depend on the first caller staying connected
		ctx := context.WithoutCancel(ctx)
		p, err := r.byUser(ctx, userID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		// a concurrent insert from another process loses silently here and
		// the re-read below picks up the winner
		fresh := &domain.Profile{UserID: userID}
		err = r.db.WithContext(ctx).Omit("User").
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
			Create(fresh).Error
		if err != nil {
			return nil, translate(err, "create profile")
		}
		return r.byUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	// callers may mutate the result, hand each one its own copy
	p := *v.(*domain.Profile)
	return &p, nil
}

func (r *GormProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(p).Error; err != nil {
		return translate(err, "create profile")
	}
	loaded, err := r.byUser(ctx, p.UserID)
	if err != nil {
		return err
	}
	*p = *loaded
	return nil
}

func (r *GormProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	err := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"phone":   p.Phone,
		"company": p.Company,
		"address": p.Address,
		"avatar":  p.Avatar,
	}).Error
	return translate(err, "update profile")
}

func (r *GormProfileRepository) Delete(ctx context.Context, scope ProfileScope, id int64) error {
	res := r.scoped(ctx, scope).Where("profiles.id = ?", id).Delete(&domain.Profile{})
	if res.Error != nil {
		return translate(res.Error, "delete profile")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
