package models

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment links a student to a course. The (student, course) pair is
// unique; the composite index closes the race between two concurrent
// enrollment requests for the same pair.
type Enrollment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentID uuid.UUID `json:"student" gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_student_course"`
	CourseID  uuid.UUID `json:"course" gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_student_course"`

	Status   EnrollmentStatus `json:"status" gorm:"not null;size:20;default:active;index"`
	Progress int              `json:"progress" gorm:"not null;default:0"` // 0-100

	EnrolledAt  time.Time  `json:"enrolled_at" gorm:"autoCreateTime"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relations
	Student User   `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`

	// Computed fields (not stored)
	StudentName   string  `json:"student_name" gorm:"-"`
	StudentEmail  string  `json:"student_email" gorm:"-"`
	CourseTitle   string  `json:"course_title" gorm:"-"`
	CourseDetails *Course `json:"course_details,omitempty" gorm:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
