package repository

import (
	"context"

	"github.com/talkincode/storefront/internal/domain"
	"gorm.io/gorm"
)

// ServiceQuery filters the active service listing. Nil filters are ignored.
type ServiceQuery struct {
	CategoryID   *int64
	ServiceType  *domain.ServiceType
	Featured     *bool
	DynamicQuote *bool
	Search       string
	Ordering     []string
	Page
}

// ServiceRepository handles service persistence, restricted to active
// services like ProductRepository.
type ServiceRepository interface {
	List(ctx context.Context, q ServiceQuery) ([]domain.Service, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	// Create and Update reload the Category association on success
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64) error
}

type GormServiceRepository struct {
	db *gorm.DB
}

func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

func (r *GormServiceRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Service{}).
		Where("services.active = ?", true)
}

func (r *GormServiceRepository) List(ctx context.Context, q ServiceQuery) ([]domain.Service, int64, error) {
	db := r.active(ctx)
	if q.CategoryID != nil {
		db = db.Where("services.category_id = ?", *q.CategoryID)
	}
	if q.ServiceType != nil {
		db = db.Where("services.service_type = ?", *q.ServiceType)
	}
	if q.Featured != nil {
		db = db.Where("services.featured = ?", *q.Featured)
	}
	if q.DynamicQuote != nil {
		db = db.Where("services.dynamic_quote = ?", *q.DynamicQuote)
	}
	db = serviceSchema.applySearch(db, q.Search)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count services")
	}

	var rows []domain.Service
	if err := q.Page.apply(serviceSchema.applyOrder(db, q.Ordering)).Preload("Category").Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list services")
	}
	return rows, total, nil
}

func (r *GormServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var s domain.Service
	if err := r.active(ctx).Preload("Category").Where("services.id = ?", id).First(&s).Error; err != nil {
		return nil, translate(err, "get service")
	}
	return &s, nil
}

func (r *GormServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Category").Create(s).Error; err != nil {
		return translate(err, "create service")
	}
	return translate(db.First(&s.Category, s.CategoryID).Error, "load service category")
}

func (r *GormServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Category").Save(s).Error; err != nil {
		return translate(err, "update service")
	}
	s.Category = domain.Category{}
	return translate(db.First(&s.Category, s.CategoryID).Error, "load service category")
}

func (r *GormServiceRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("services.id = ? AND services.active = ?", id, true).
		Delete(&domain.Service{})
	if res.Error != nil {
		return translate(res.Error, "delete service")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
