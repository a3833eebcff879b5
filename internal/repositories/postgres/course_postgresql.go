package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/authz"
	"github.com/openlms/lms-service/internal/cache"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
)

type CoursePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db, cacheManager: cacheManager}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

var courseSortColumns = map[string]string{
	"created_at": "courses.created_at",
	"title":      "courses.title",
	"price":      "courses.price",
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if err := c.getDB(tx).WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.InvalidateCategoryList(ctx, c.cacheManager)
	return nil
}

// courseCacheEntry is the cached form of a course row. The model hides its
// Instructor and Category relations from API output with `json:"-"`, which
// would drop them in the cache round-trip, so copies are stored under real
// tags here.
type courseCacheEntry struct {
	Row        models.Course    `json:"row"`
	Instructor models.User      `json:"instructor"`
	Category   *models.Category `json:"category"`
}

func newCourseCacheEntry(row *models.Course) *courseCacheEntry {
	return &courseCacheEntry{
		Row:        *row,
		Instructor: row.Instructor,
		Category:   row.Category,
	}
}

// course restores the relations onto the row.
func (e *courseCacheEntry) course() *models.Course {
	course := e.Row
	course.Instructor = e.Instructor
	course.Category = e.Category
	return &course
}

// GetByID retrieves a course with relations and enrollment count, cached
// by id. Visibility is the caller's concern; the row is actor-independent.
// Transactional reads bypass the cache.
func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Course, error) {
	if tx != nil {
		return c.getByIDFromDB(ctx, tx, id)
	}

	cacheKey := fmt.Sprintf("id:%s", id)
	var entry courseCacheEntry

	err := c.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &entry, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		row, err := c.getByIDFromDB(ctx, nil, id)
		if err != nil {
			return nil, err
		}
		return newCourseCacheEntry(row), nil
	})
	if err != nil {
		return nil, err
	}

	return entry.course(), nil
}

func (c *CoursePostgreSQL) getByIDFromDB(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Course, error) {
	var row models.Course
	if err := c.getDB(tx).WithContext(ctx).
		Preload("Instructor").
		Preload("Category").
		Select(enrollmentCountSelect).
		First(&row, "courses.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &row, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if err := c.getDB(tx).WithContext(ctx).
		Omit("Instructor", "Category").
		Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, course.ID)
	cache.InvalidateCategoryList(ctx, c.cacheManager)
	return nil
}

// Delete removes a course; the enrollment FK cascades.
func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	result := c.getDB(tx).WithContext(ctx).Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete course: %w", gorm.ErrRecordNotFound)
	}
	cache.InvalidateCourseCache(ctx, c.cacheManager, id)
	cache.InvalidateCategoryList(ctx, c.cacheManager)
	return nil
}

// List applies the actor visibility scope, optional filters, and annotates
// enrollment counts in a single query pass.
func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, scope authz.CourseScope, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	base := applyCourseScope(c.getDB(tx).WithContext(ctx).Model(&models.Course{}), scope)

	if filters.CategoryID != nil {
		base = base.Where("courses.category_id = ?", *filters.CategoryID)
	}
	if filters.InstructorID != nil {
		base = base.Where("courses.instructor_id = ?", *filters.InstructorID)
	}
	if filters.Difficulty != nil {
		base = base.Where("courses.difficulty = ?", *filters.Difficulty)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		base = base.Where("courses.title ILIKE ? OR courses.description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var courses []*models.Course
	query := base.
		Preload("Instructor").
		Preload("Category").
		Select(enrollmentCountSelect)
	query = applySort(query, filters.SortBy, filters.SortOrder, courseSortColumns, "courses.created_at DESC")
	if err := applyPagination(query, filters.Limit, filters.Offset).Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

// ListMine resolves the "my courses" derived view: taught courses for
// instructors, enrolled courses for students.
func (c *CoursePostgreSQL) ListMine(ctx context.Context, tx *gorm.DB, scope authz.MyCoursesScope) ([]*models.Course, error) {
	if scope.Empty {
		return []*models.Course{}, nil
	}

	db := c.getDB(tx).WithContext(ctx).
		Model(&models.Course{}).
		Preload("Instructor").
		Preload("Category").
		Select(enrollmentCountSelect)

	switch {
	case scope.TaughtBy != nil:
		db = db.Where("courses.instructor_id = ?", *scope.TaughtBy)
	case scope.EnrolledBy != nil:
		db = db.Where("courses.id IN (?)",
			c.getDB(tx).Model(&models.Enrollment{}).
				Select("course_id").
				Where("student_id = ?", *scope.EnrolledBy))
	}

	var courses []*models.Course
	if err := db.Order("courses.created_at DESC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list my courses: %w", err)
	}
	return courses, nil
}

// EnrolledCourseIDs returns which of courseIDs the student is enrolled in,
// in one query, for batch is_enrolled annotation.
func (c *CoursePostgreSQL) EnrolledCourseIDs(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	enrolled := make(map[uuid.UUID]bool, len(courseIDs))
	if len(courseIDs) == 0 {
		return enrolled, nil
	}

	var ids []uuid.UUID
	if err := c.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id IN ?", studentID, courseIDs).
		Pluck("course_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve enrolled courses: %w", err)
	}

	for _, id := range ids {
		enrolled[id] = true
	}
	return enrolled, nil
}
