package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/authz"
)

// enrollmentCountSelect annotates course rows with their enrollment count in
// the same query pass, avoiding a per-row count round-trip.
const enrollmentCountSelect = "courses.*, " +
	"(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = courses.id) AS enrollment_count"

// applyCourseScope translates an actor visibility scope into a WHERE clause.
func applyCourseScope(db *gorm.DB, scope authz.CourseScope) *gorm.DB {
	if scope.Unrestricted {
		return db
	}
	if scope.IncludeInstructorID != nil {
		return db.Where("courses.is_published = ? OR courses.instructor_id = ?", true, *scope.IncludeInstructorID)
	}
	return db.Where("courses.is_published = ?", true)
}

// applyEnrollmentScope translates an enrollment visibility scope. The
// instructor branch joins courses to reach the owning instructor.
func applyEnrollmentScope(db *gorm.DB, scope authz.EnrollmentScope) *gorm.DB {
	switch {
	case scope.StudentID != nil:
		return db.Where("enrollments.student_id = ?", *scope.StudentID)
	case scope.CourseInstructorID != nil:
		return db.
			Joins("JOIN courses ON courses.id = enrollments.course_id").
			Where("courses.instructor_id = ?", *scope.CourseInstructorID)
	default:
		return db
	}
}

// applySort whitelists sortable columns so filter input never reaches SQL raw.
func applySort(db *gorm.DB, sortBy, sortOrder string, allowed map[string]string, fallback string) *gorm.DB {
	column, ok := allowed[sortBy]
	if !ok {
		return db.Order(fallback)
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	return db.Order(fmt.Sprintf("%s %s", column, order))
}

// applyPagination applies bounded limit/offset.
func applyPagination(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return db.Limit(limit).Offset(offset)
}
