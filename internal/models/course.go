package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseDifficulty string

const (
	DifficultyBeginner     CourseDifficulty = "beginner"
	DifficultyIntermediate CourseDifficulty = "intermediate"
	DifficultyAdvanced     CourseDifficulty = "advanced"
)

type Course struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string    `json:"title" gorm:"not null;size:300;index"`
	Description string    `json:"description" gorm:"type:text;not null"`

	// Deleting a category nulls the reference; courses outlive their category.
	CategoryID *uuid.UUID `json:"category" gorm:"type:uuid;index"`

	// InstructorID must reference a user whose role is instructor.
	InstructorID uuid.UUID `json:"instructor" gorm:"type:uuid;not null;index"`

	Thumbnail   string           `json:"thumbnail" gorm:"size:500"`
	Difficulty  CourseDifficulty `json:"difficulty" gorm:"not null;size:20;default:beginner"`
	Duration    int              `json:"duration" gorm:"not null;default:0"` // hours
	Price       float64          `json:"price" gorm:"type:numeric(10,2);not null;default:0"`
	IsPublished bool             `json:"is_published" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Category   *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Instructor User      `json:"-" gorm:"foreignKey:InstructorID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored). EnrollmentCount is annotated in the same
	// query pass as the course rows; IsEnrolled depends on the requesting actor.
	EnrollmentCount int64  `json:"enrollment_count" gorm:"->;-:migration"`
	IsEnrolled      bool   `json:"is_enrolled" gorm:"-"`
	InstructorName  string `json:"instructor_name" gorm:"-"`
	CategoryName    string `json:"category_name" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}
