package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/authz"
	"github.com/openlms/lms-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role   *models.UserRole `json:"role"`
	Query  string           `json:"query"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type CourseFilters struct {
	CategoryID   *uuid.UUID               `json:"category_id"`
	InstructorID *uuid.UUID               `json:"instructor_id"`
	Difficulty   *models.CourseDifficulty `json:"difficulty"`
	Query        string                   `json:"query"`
	Limit        int                      `json:"limit"`
	Offset       int                      `json:"offset"`
	SortBy       string                   `json:"sort_by"`    // "created_at", "title", "price"
	SortOrder    string                   `json:"sort_order"` // "asc", "desc"
}

type EnrollmentFilters struct {
	Status   *models.EnrollmentStatus `json:"status"`
	CourseID *uuid.UUID               `json:"course_id"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

// ===== DASHBOARD =====

// DashboardCounts are the cardinality counters behind /dashboard/stats,
// recomputed fresh on every call.
type DashboardCounts struct {
	TotalUsers        int64 `json:"total_users"`
	TotalStudents     int64 `json:"total_students"`
	TotalInstructors  int64 `json:"total_instructors"`
	TotalCourses      int64 `json:"total_courses"`
	TotalEnrollments  int64 `json:"total_enrollments"`
	PublishedCourses  int64 `json:"published_courses"`
	ActiveEnrollments int64 `json:"active_enrollments"`
}

// ===== REPOSITORY INTERFACES =====

// The tx parameter carries an open transaction; nil means the repository's
// own connection.

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	UpdatePasswordHash(ctx context.Context, tx *gorm.DB, id uuid.UUID, hash string) error
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

type PasswordResetTokenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, token *models.PasswordResetToken) error

	// Consume atomically marks the unused token as used and returns it.
	// A missing or already-consumed token yields a not-found error; the
	// conditional update makes double consumption impossible even under
	// concurrent requests.
	Consume(ctx context.Context, tx *gorm.DB, token string) (*models.PasswordResetToken, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, tx *gorm.DB, category *models.Category) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, tx *gorm.DB, category *models.Category) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	// List annotates each category with its course count in the same query.
	List(ctx context.Context, tx *gorm.DB) ([]*models.Category, error)
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	// List applies the actor visibility scope and annotates each course with
	// its enrollment count in the same query pass.
	List(ctx context.Context, tx *gorm.DB, scope authz.CourseScope, filters CourseFilters) ([]*models.Course, int64, error)

	// ListMine resolves the "my courses" derived view.
	ListMine(ctx context.Context, tx *gorm.DB, scope authz.MyCoursesScope) ([]*models.Course, error)

	// EnrolledCourseIDs returns the ids of courses the student is enrolled
	// in, for batch is_enrolled annotation.
	EnrolledCourseIDs(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Enrollment, error)
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, scope authz.EnrollmentScope, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)
}

type DashboardRepository interface {
	GetCounts(ctx context.Context, tx *gorm.DB) (*DashboardCounts, error)

	// Report listings, newest first, with related rows joined in.
	ListEnrollmentsForReport(ctx context.Context, tx *gorm.DB) ([]*models.Enrollment, error)
	ListCoursesForReport(ctx context.Context, tx *gorm.DB, instructorID *uuid.UUID) ([]*models.Course, error)
}
