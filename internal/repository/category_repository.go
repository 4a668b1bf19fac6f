package repository

import (
	"context"

	"github.com/talkincode/storefront/internal/domain"
	"gorm.io/gorm"
)

// CategoryQuery filters the active category listing
type CategoryQuery struct {
	Search   string
	Ordering []string
	Page
}

// CategoryRepository handles category persistence. Reads, updates and
// deletes only ever see active categories.
type CategoryRepository interface {
	List(ctx context.Context, q CategoryQuery) ([]domain.Category, int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	// NameExists reports whether another category (id != excludeID) uses name
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	// Delete removes an active category together with all of its products
	// and services
	Delete(ctx context.Context, id int64) error
	// CountChildren returns the active product and service counts per category id
	CountChildren(ctx context.Context, ids []int64) (map[int64]domain.CategoryCounts, error)
}

// GormCategoryRepository is the GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Category{}).Where("categories.active = ?", true)
}

func (r *GormCategoryRepository) List(ctx context.Context, q CategoryQuery) ([]domain.Category, int64, error) {
	db := categorySchema.applySearch(r.active(ctx), q.Search)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count categories")
	}

	var rows []domain.Category
	err := q.Page.apply(categorySchema.applyOrder(db, q.Ordering)).Find(&rows).Error
	if err != nil {
		return nil, 0, translate(err, "list categories")
	}
	return rows, total, nil
}

func (r *GormCategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	if err := r.active(ctx).Where("categories.id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "get category")
	}
	return &c, nil
}

func (r *GormCategoryRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).
		Where("name = ? AND id != ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "check category name")
	}
	return count > 0, nil
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, "create category")
}

func (r *GormCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	return translate(r.db.WithContext(ctx).Save(c).Error, "update category")
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&domain.Category{}).
			Where("categories.id = ? AND categories.active = ?", id, true).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("category_id = ?", id).Delete(&domain.Product{}).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&domain.Service{}).Error; err != nil {
			return err
		}
		res := tx.Where("categories.id = ? AND categories.active = ?", id, true).
			Delete(&domain.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate(err, "delete category")
}

type childCount struct {
	CategoryID int64
	Total      int64
}

func (r *GormCategoryRepository) CountChildren(ctx context.Context, ids []int64) (map[int64]domain.CategoryCounts, error) {
	counts := make(map[int64]domain.CategoryCounts, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var products []childCount
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Select("category_id, COUNT(*) AS total").
		Where("active = ? AND category_id IN ?", true, ids).
		Group("category_id").
		Scan(&products).Error
	if err != nil {
		return nil, translate(err, "count category products")
	}

	var services []childCount
	err = r.db.WithContext(ctx).Model(&domain.Service{}).
		Select("category_id, COUNT(*) AS total").
		Where("active = ? AND category_id IN ?", true, ids).
		Group("category_id").
		Scan(&services).Error
	if err != nil {
		return nil, translate(err, "count category services")
	}

	for _, id := range ids {
		counts[id] = domain.CategoryCounts{}
	}
	for _, pc := range products {
		c := counts[pc.CategoryID]
		c.Products = pc.Total
		counts[pc.CategoryID] = c
	}
	for _, sc := range services {
		c := counts[sc.CategoryID]
		c.Services = sc.Total
		counts[sc.CategoryID] = c
	}
	return counts, nil
}
