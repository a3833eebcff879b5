package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (d *DashboardPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

// GetCounts recomputes every dashboard counter fresh; nothing is cached.
func (d *DashboardPostgreSQL) GetCounts(ctx context.Context, tx *gorm.DB) (*repositories.DashboardCounts, error) {
	db := d.getDB(tx).WithContext(ctx)
	counts := &repositories.DashboardCounts{}

	type counter struct {
		name  string
		dest  *int64
		query *gorm.DB
	}

	counters := []counter{
		{"total users", &counts.TotalUsers,
			db.Model(&models.User{})},
		{"total students", &counts.TotalStudents,
			db.Model(&models.User{}).Where("role = ?", models.RoleStudent)},
		{"total instructors", &counts.TotalInstructors,
			db.Model(&models.User{}).Where("role = ?", models.RoleInstructor)},
		{"total courses", &counts.TotalCourses,
			db.Model(&models.Course{})},
		{"total enrollments", &counts.TotalEnrollments,
			db.Model(&models.Enrollment{})},
		{"published courses", &counts.PublishedCourses,
			db.Model(&models.Course{}).Where("is_published = ?", true)},
		{"active enrollments", &counts.ActiveEnrollments,
			db.Model(&models.Enrollment{}).Where("status = ?", models.EnrollmentActive)},
	}

	for _, c := range counters {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
	}

	return counts, nil
}

// ListEnrollmentsForReport returns every enrollment newest first with
// student, course, and course instructor joined in.
func (d *DashboardPostgreSQL) ListEnrollmentsForReport(ctx context.Context, tx *gorm.DB) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	if err := d.getDB(tx).WithContext(ctx).
		Preload("Student").
		Preload("Course").
		Preload("Course.Instructor").
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments for report: %w", err)
	}
	return enrollments, nil
}

// ListCoursesForReport returns courses newest first with enrollment counts
// annotated; instructorID narrows the report to one instructor's courses.
func (d *DashboardPostgreSQL) ListCoursesForReport(ctx context.Context, tx *gorm.DB, instructorID *uuid.UUID) ([]*models.Course, error) {
	db := d.getDB(tx).WithContext(ctx).
		Model(&models.Course{}).
		Preload("Instructor").
		Preload("Category").
		Select(enrollmentCountSelect)

	if instructorID != nil {
		db = db.Where("courses.instructor_id = ?", *instructorID)
	}

	var courses []*models.Course
	if err := db.Order("courses.created_at DESC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses for report: %w", err)
	}
	return courses, nil
}
