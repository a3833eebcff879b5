package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/authz"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
)

// Hand-rolled repository mocks with overridable function fields. A call to
// an unset function returns gorm.ErrRecordNotFound so tests only wire what
// they exercise.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUserRepo struct {
	CreateFn             func(ctx context.Context, user *models.User) error
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFn         func(ctx context.Context, email string) (*models.User, error)
	UpdateFn             func(ctx context.Context, user *models.User) error
	UpdatePasswordHashFn func(ctx context.Context, id uuid.UUID, hash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.GetByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	if m.GetByEmailFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.GetByEmailFn(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, user)
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, tx *gorm.DB, id uuid.UUID, hash string) error {
	if m.UpdatePasswordHashFn == nil {
		return nil
	}
	return m.UpdatePasswordHashFn(ctx, id, hash)
}

func (m *mockUserRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	return false, nil
}

type mockResetTokenRepo struct {
	CreateFn  func(ctx context.Context, token *models.PasswordResetToken) error
	ConsumeFn func(ctx context.Context, token string) (*models.PasswordResetToken, error)
}

func (m *mockResetTokenRepo) Create(ctx context.Context, tx *gorm.DB, token *models.PasswordResetToken) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, token)
}

func (m *mockResetTokenRepo) Consume(ctx context.Context, tx *gorm.DB, token string) (*models.PasswordResetToken, error) {
	if m.ConsumeFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.ConsumeFn(ctx, token)
}

type mockCategoryRepo struct {
	CreateFn  func(ctx context.Context, category *models.Category) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*models.Category, error)
	UpdateFn  func(ctx context.Context, category *models.Category) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
	ListFn    func(ctx context.Context) ([]*models.Category, error)
}

func (m *mockCategoryRepo) Create(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, category)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Category, error) {
	if m.GetByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.GetByIDFn(ctx, id)
}

func (m *mockCategoryRepo) Update(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, category)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, id)
}

func (m *mockCategoryRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Category, error) {
	if m.ListFn == nil {
		return nil, nil
	}
	return m.ListFn(ctx)
}

type mockCourseRepo struct {
	CreateFn            func(ctx context.Context, course *models.Course) error
	GetByIDFn           func(ctx context.Context, id uuid.UUID) (*models.Course, error)
	UpdateFn            func(ctx context.Context, course *models.Course) error
	DeleteFn            func(ctx context.Context, id uuid.UUID) error
	ListFn              func(ctx context.Context, scope authz.CourseScope, filters repositories.CourseFilters) ([]*models.Course, int64, error)
	ListMineFn          func(ctx context.Context, scope authz.MyCoursesScope) ([]*models.Course, error)
	EnrolledCourseIDsFn func(ctx context.Context, studentID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

func (m *mockCourseRepo) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, course)
}

func (m *mockCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Course, error) {
	if m.GetByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.GetByIDFn(ctx, id)
}

func (m *mockCourseRepo) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, course)
}

func (m *mockCourseRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, id)
}

func (m *mockCourseRepo) List(ctx context.Context, tx *gorm.DB, scope authz.CourseScope, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	if m.ListFn == nil {
		return nil, 0, nil
	}
	return m.ListFn(ctx, scope, filters)
}

func (m *mockCourseRepo) ListMine(ctx context.Context, tx *gorm.DB, scope authz.MyCoursesScope) ([]*models.Course, error) {
	if m.ListMineFn == nil {
		return nil, nil
	}
	return m.ListMineFn(ctx, scope)
}

func (m *mockCourseRepo) EnrolledCourseIDs(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if m.EnrolledCourseIDsFn == nil {
		return map[uuid.UUID]bool{}, nil
	}
	return m.EnrolledCourseIDsFn(ctx, studentID, courseIDs)
}

type mockEnrollmentRepo struct {
	CreateFn  func(ctx context.Context, enrollment *models.Enrollment) error
	GetByIDFn func(ctx context.Context, id uuid.UUID) (*models.Enrollment, error)
	UpdateFn  func(ctx context.Context, enrollment *models.Enrollment) error
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
	ListFn    func(ctx context.Context, scope authz.EnrollmentScope, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error)
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if m.CreateFn == nil {
		return nil
	}
	return m.CreateFn(ctx, enrollment)
}

func (m *mockEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Enrollment, error) {
	if m.GetByIDFn == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.GetByIDFn(ctx, id)
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(ctx, enrollment)
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, id)
}

func (m *mockEnrollmentRepo) List(ctx context.Context, tx *gorm.DB, scope authz.EnrollmentScope, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	if m.ListFn == nil {
		return nil, 0, nil
	}
	return m.ListFn(ctx, scope, filters)
}

type mockDashboardRepo struct {
	GetCountsFn                 func(ctx context.Context) (*repositories.DashboardCounts, error)
	ListEnrollmentsForReportFn  func(ctx context.Context) ([]*models.Enrollment, error)
	ListCoursesForReportFn      func(ctx context.Context, instructorID *uuid.UUID) ([]*models.Course, error)
}

func (m *mockDashboardRepo) GetCounts(ctx context.Context, tx *gorm.DB) (*repositories.DashboardCounts, error) {
	if m.GetCountsFn == nil {
		return &repositories.DashboardCounts{}, nil
	}
	return m.GetCountsFn(ctx)
}

func (m *mockDashboardRepo) ListEnrollmentsForReport(ctx context.Context, tx *gorm.DB) ([]*models.Enrollment, error) {
	if m.ListEnrollmentsForReportFn == nil {
		return nil, nil
	}
	return m.ListEnrollmentsForReportFn(ctx)
}

func (m *mockDashboardRepo) ListCoursesForReport(ctx context.Context, tx *gorm.DB, instructorID *uuid.UUID) ([]*models.Course, error) {
	if m.ListCoursesForReportFn == nil {
		return nil, nil
	}
	return m.ListCoursesForReportFn(ctx, instructorID)
}

// mockRepository aggregates the per-entity mocks behind the Repository
// interface.
type mockRepository struct {
	users       mockUserRepo
	resetTokens mockResetTokenRepo
	categories  mockCategoryRepo
	courses     mockCourseRepo
	enrollments mockEnrollmentRepo
	dashboard   mockDashboardRepo
}

func (m *mockRepository) User() repositories.UserRepository { return &m.users }
func (m *mockRepository) PasswordResetToken() repositories.PasswordResetTokenRepository {
	return &m.resetTokens
}
func (m *mockRepository) Category() repositories.CategoryRepository     { return &m.categories }
func (m *mockRepository) Course() repositories.CourseRepository         { return &m.courses }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository { return &m.enrollments }
func (m *mockRepository) Dashboard() repositories.DashboardRepository   { return &m.dashboard }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// mockTokenStore is an in-memory refresh-token denylist.
type mockTokenStore struct {
	revoked map[string]bool
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{revoked: make(map[string]bool)}
}

func (s *mockTokenStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	s.revoked[token] = true
	return nil
}

func (s *mockTokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.revoked[token], nil
}
