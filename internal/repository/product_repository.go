package repository

import (
	"context"

	"github.com/talkincode/storefront/internal/domain"
	"gorm.io/gorm"
)

// ProductQuery filters the active product listing. Nil filters are ignored.
type ProductQuery struct {
	CategoryID  *int64
	LicenseType *domain.LicenseType
	Featured    *bool
	Search      string
	Ordering    []string
	Page
}

// ProductRepository handles product persistence. Every read is restricted
// to active products.
type ProductRepository interface {
	List(ctx context.Context, q ProductQuery) ([]domain.Product, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// Create and Update reload the Category association on success
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("products.active = ?", true)
}

func (r *GormProductRepository) List(ctx context.Context, q ProductQuery) ([]domain.Product, int64, error) {
	db := r.active(ctx)
	if q.CategoryID != nil {
		db = db.Where("products.category_id = ?", *q.CategoryID)
	}
	if q.LicenseType != nil {
		db = db.Where("products.license_type = ?", *q.LicenseType)
	}
	if q.Featured != nil {
		db = db.Where("products.featured = ?", *q.Featured)
	}
	db = productSchema.applySearch(db, q.Search)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count products")
	}

	var rows []domain.Product
	if err := q.Page.apply(productSchema.applyOrder(db, q.Ordering)).Preload("Category").Find(&rows).Error; err != nil {
		return nil, 0, translate(err, "list products")
	}
	return rows, total, nil
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.active(ctx).Preload("Category").Where("products.id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "get product")
	}
	return &p, nil
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Category").Create(p).Error; err != nil {
		return translate(err, "create product")
	}
	return translate(db.First(&p.Category, p.CategoryID).Error, "load product category")
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Category").Save(p).Error; err != nil {
		return translate(err, "update product")
	}
	p.Category = domain.Category{}
	return translate(db.First(&p.Category, p.CategoryID).Error, "load product category")
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("products.id = ? AND products.active = ?", id, true).
		Delete(&domain.Product{})
	if res.Error != nil {
		return translate(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
