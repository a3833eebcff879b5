package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/models"
)

// Event types published to the message broker.
const (
	EventUserRegistered         = "user.registered"
	EventPasswordResetRequested = "auth.password_reset_requested"
	EventEnrollmentCreated      = "enrollment.created"
	EventCoursePublished        = "course.published"
)

// Event is the envelope every published event travels in.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope around a payload.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "lms-service",
		Version:   "1.0",
		Timestamp: time.Now(),
		Data:      data,
	}
}

// ===== EVENT PAYLOADS =====

type UserRegisteredEvent struct {
	UserID    uuid.UUID       `json:"user_id"`
	Email     string          `json:"email"`
	FullName  string          `json:"full_name"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// PasswordResetRequestedEvent carries the reset token to the mail
// delivery consumer; the API response never includes it.
type PasswordResetRequestedEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	ResetToken string    `json:"reset_token"`
}

type EnrollmentCreatedEvent struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	StudentID    uuid.UUID `json:"student_id"`
	CourseID     uuid.UUID `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

type CoursePublishedEvent struct {
	CourseID     uuid.UUID `json:"course_id"`
	Title        string    `json:"title"`
	InstructorID uuid.UUID `json:"instructor_id"`
	PublishedAt  time.Time `json:"published_at"`
}

// EventPublisher abstracts the broker so services can publish without
// knowing the transport.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
