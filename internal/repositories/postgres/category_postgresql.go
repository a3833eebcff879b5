package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/cache"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
)

type CategoryPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCategoryPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CategoryRepository {
	return &CategoryPostgreSQL{db: db, cacheManager: cacheManager}
}

func (c *CategoryPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CategoryPostgreSQL) Create(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	if err := c.getDB(tx).WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	cache.InvalidateCategoryList(ctx, c.cacheManager)
	return nil
}

// GetByID retrieves a category by id with caching. Transactional reads
// bypass the cache.
func (c *CategoryPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Category, error) {
	if tx != nil {
		return c.getByIDFromDB(ctx, tx, id)
	}

	cacheKey := fmt.Sprintf("id:%s", id)
	var category models.Category

	err := c.cacheManager.Category.CacheOrExecute(ctx, cacheKey, &category, cache.CategoryCacheConfig.TTL, func() (interface{}, error) {
		return c.getByIDFromDB(ctx, nil, id)
	})
	if err != nil {
		return nil, err
	}

	return &category, nil
}

func (c *CategoryPostgreSQL) getByIDFromDB(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Category, error) {
	var row models.Category
	if err := c.getDB(tx).WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &row, nil
}

func (c *CategoryPostgreSQL) Update(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	if err := c.getDB(tx).WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	cache.InvalidateCategoryCache(ctx, c.cacheManager, category.ID)
	return nil
}

func (c *CategoryPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := c.getDB(tx).WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete category: %w", gorm.ErrRecordNotFound)
	}
	cache.InvalidateCategoryCache(ctx, c.cacheManager, id)
	return nil
}

// List returns all categories ordered by name, each annotated with its
// course count in the same query. The full list is cached; transactional
// reads bypass the cache.
func (c *CategoryPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Category, error) {
	if tx != nil {
		return c.listFromDB(ctx, tx)
	}

	var categories []*models.Category
	err := c.cacheManager.Category.CacheOrExecute(ctx, "all", &categories, cache.CategoryCacheConfig.TTL, func() (interface{}, error) {
		rows, err := c.listFromDB(ctx, nil)
		if err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *CategoryPostgreSQL) listFromDB(ctx context.Context, tx *gorm.DB) ([]*models.Category, error) {
	type categoryRow struct {
		models.Category
		CourseCount int64 `gorm:"column:course_count"`
	}

	var rows []categoryRow
	if err := c.getDB(tx).WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*, COUNT(courses.id) AS course_count").
		Joins("LEFT JOIN courses ON courses.category_id = categories.id").
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*models.Category, len(rows))
	for i := range rows {
		category := rows[i].Category
		category.CourseCount = rows[i].CourseCount
		categories[i] = &category
	}
	return categories, nil
}
