package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/authz"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
	"github.com/openlms/lms-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type LogoutRequest = validator.LogoutRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type ForgetPasswordRequest = validator.ForgetPasswordRequest
type ResetPasswordRequest = validator.ResetPasswordRequest

type CreateCategoryRequest = validator.CategoryCreateRequest
type UpdateCategoryRequest = validator.CategoryUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest
type CreateEnrollmentRequest = validator.EnrollmentCreateRequest
type UpdateEnrollmentRequest = validator.EnrollmentUpdateRequest

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthResponse struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

type CourseListResponse struct {
	Courses []*models.Course `json:"courses"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Size        int                  `json:"size"`
}

type DashboardStatsResponse struct {
	TotalUsers        int64 `json:"total_users"`
	TotalStudents     int64 `json:"total_students"`
	TotalInstructors  int64 `json:"total_instructors"`
	TotalCourses      int64 `json:"total_courses"`
	TotalEnrollments  int64 `json:"total_enrollments"`
	PublishedCourses  int64 `json:"published_courses"`
	ActiveEnrollments int64 `json:"active_enrollments"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, req *LogoutRequest) error

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *ProfileUpdateRequest) (*models.User, error)

	ForgetPassword(ctx context.Context, req *ForgetPasswordRequest) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
}

type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, req *CreateCategoryRequest, actor authz.Actor) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateCategoryRequest, actor authz.Actor) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID, actor authz.Actor) error
}

type CourseService interface {
	List(ctx context.Context, filters repositories.CourseFilters, actor authz.Actor) (*CourseListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID, actor authz.Actor) (*models.Course, error)
	ListMine(ctx context.Context, actor authz.Actor) ([]*models.Course, error)
	Create(ctx context.Context, req *CreateCourseRequest, actor authz.Actor) (*models.Course, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateCourseRequest, actor authz.Actor) (*models.Course, error)
	Delete(ctx context.Context, id uuid.UUID, actor authz.Actor) error
}

type EnrollmentService interface {
	List(ctx context.Context, filters repositories.EnrollmentFilters, actor authz.Actor) (*EnrollmentListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID, actor authz.Actor) (*models.Enrollment, error)
	Create(ctx context.Context, req *CreateEnrollmentRequest, actor authz.Actor) (*models.Enrollment, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateEnrollmentRequest, actor authz.Actor) (*models.Enrollment, error)
	Delete(ctx context.Context, id uuid.UUID, actor authz.Actor) error
}

type DashboardService interface {
	// GetStats recomputes the counters on every call; nothing is cached.
	GetStats(ctx context.Context) (*DashboardStatsResponse, error)

	EnrollmentReport(ctx context.Context) ([]*models.Enrollment, error)
	CourseReport(ctx context.Context, actor authz.Actor) ([]*models.Course, error)

	// XLSX renderings of the same reports: one header row plus one row per
	// entry.
	ExportEnrollmentReport(ctx context.Context) ([]byte, error)
	ExportCourseReport(ctx context.Context, actor authz.Actor) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	Category() CategoryService
	Course() CourseService
	Enrollment() EnrollmentService
	Dashboard() DashboardService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
