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

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db, cacheManager: cacheManager}
}

func (e *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

// Create inserts the enrollment. Duplicate (student, course) pairs surface
// as a unique-constraint violation from the composite index; there is
// deliberately no pre-check, so concurrent submissions cannot both pass.
func (e *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if err := e.getDB(tx).WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	// The cached course row carries enrollment_count.
	cache.InvalidateCourseCache(ctx, e.cacheManager, enrollment.CourseID)
	return nil
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.getDB(tx).WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Preload("Course.Instructor").
		First(&enrollment, "enrollments.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if err := e.getDB(tx).WithContext(ctx).
		Omit("Student", "Course").
		Save(enrollment).Error; err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	var enrollment models.Enrollment
	if err := e.getDB(tx).WithContext(ctx).
		Select("id", "course_id").
		First(&enrollment, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	result := e.getDB(tx).WithContext(ctx).Delete(&models.Enrollment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete enrollment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to delete enrollment: %w", gorm.ErrRecordNotFound)
	}
	cache.InvalidateCourseCache(ctx, e.cacheManager, enrollment.CourseID)
	return nil
}

// List applies the actor visibility scope, newest enrollments first, with
// student and course rows preloaded for response shaping.
func (e *EnrollmentPostgreSQL) List(ctx context.Context, tx *gorm.DB, scope authz.EnrollmentScope, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	base := applyEnrollmentScope(e.getDB(tx).WithContext(ctx).Model(&models.Enrollment{}), scope)

	if filters.Status != nil {
		base = base.Where("enrollments.status = ?", *filters.Status)
	}
	if filters.CourseID != nil {
		base = base.Where("enrollments.course_id = ?", *filters.CourseID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	var enrollments []*models.Enrollment
	if err := applyPagination(base.
		Preload("Student").
		Preload("Course").
		Preload("Course.Instructor").
		Order("enrollments.enrolled_at DESC"), filters.Limit, filters.Offset).
		Find(&enrollments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return enrollments, total, nil
}
