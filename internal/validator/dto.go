package validator

import (
	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/models"
)

// ===== AUTH =====

type RegisterRequest struct {
	Email           string          `json:"email" validate:"required,email,max=255"`
	FirstName       string          `json:"first_name" validate:"required,max=100"`
	LastName        string          `json:"last_name" validate:"omitempty,max=100"`
	Role            models.UserRole `json:"role" validate:"required,oneof=admin instructor student"`
	Phone           string          `json:"phone" validate:"omitempty,max=30"`
	Password        string          `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string          `json:"confirm_password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ProfileUpdateRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,max=100"`
	Phone        *string `json:"phone" validate:"omitempty,max=30"`
	Bio          *string `json:"bio" validate:"omitempty,max=2000"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,max=500"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ===== CATEGORY =====

type CategoryCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type CategoryUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// ===== COURSE =====

type CourseCreateRequest struct {
	Title       string                  `json:"title" validate:"required,min=1,max=300"`
	Description string                  `json:"description" validate:"required"`
	CategoryID  *uuid.UUID              `json:"category"`
	Thumbnail   string                  `json:"thumbnail" validate:"omitempty,max=500"`
	Difficulty  models.CourseDifficulty `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration    int                     `json:"duration" validate:"omitempty,min=0"`
	Price       float64                 `json:"price" validate:"omitempty,min=0"`
	IsPublished bool                    `json:"is_published"`

	// Instructor may only be set by admins; instructors always own what
	// they create.
	InstructorID *uuid.UUID `json:"instructor"`
}

type CourseUpdateRequest struct {
	Title       *string                  `json:"title" validate:"omitempty,min=1,max=300"`
	Description *string                  `json:"description" validate:"omitempty"`
	CategoryID  *uuid.UUID               `json:"category"`
	Thumbnail   *string                  `json:"thumbnail" validate:"omitempty,max=500"`
	Difficulty  *models.CourseDifficulty `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration    *int                     `json:"duration" validate:"omitempty,min=0"`
	Price       *float64                 `json:"price" validate:"omitempty,min=0"`
	IsPublished *bool                    `json:"is_published"`
}

// ===== ENROLLMENT =====

type EnrollmentCreateRequest struct {
	CourseID uuid.UUID `json:"course" validate:"required"`
}

type EnrollmentUpdateRequest struct {
	Status   *models.EnrollmentStatus `json:"status" validate:"omitempty,oneof=active completed dropped"`
	Progress *int                     `json:"progress" validate:"omitempty,min=0,max=100"`
}
