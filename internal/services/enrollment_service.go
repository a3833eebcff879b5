package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/authz"
	"github.com/openlms/lms-service/internal/events"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
	"github.com/openlms/lms-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *enrollmentService) List(ctx context.Context, filters repositories.EnrollmentFilters, actor authz.Actor) (*EnrollmentListResponse, error) {
	scope := authz.EnrollmentsFor(actor)

	enrollments, total, err := s.repo.Enrollment().List(ctx, nil, scope, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	for _, enrollment := range enrollments {
		decorateEnrollment(enrollment)
	}

	return &EnrollmentListResponse{
		Enrollments: enrollments,
		Total:       total,
		Page:        (filters.Offset / max(filters.Limit, 1)) + 1,
		Size:        filters.Limit,
	}, nil
}

func (s *enrollmentService) GetByID(ctx context.Context, id uuid.UUID, actor authz.Actor) (*models.Enrollment, error) {
	enrollment, err := s.repo.Enrollment().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	// Out-of-scope rows read like missing rows, matching the listing.
	if !authz.EnrollmentsFor(actor).Allows(enrollment.StudentID, enrollment.Course.InstructorID) {
		return nil, ErrEnrollmentNotFound
	}

	decorateEnrollment(enrollment)
	return enrollment, nil
}

// Create enrolls the acting student into a course. The student is always
// the actor; nobody enrolls somebody else.
func (s *enrollmentService) Create(ctx context.Context, req *CreateEnrollmentRequest, actor authz.Actor) (*models.Enrollment, error) {
	s.logger.Info("Creating enrollment", "course_id", req.CourseID, "student_id", actor.ID)

	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}
	if !authz.IsStudent(actor) {
		return nil, NewPermissionError(actor.ID, req.CourseID, "enrollment", "create", "only students can enroll")
	}

	// The course must be visible to the student, so drafts cannot be
	// enrolled into.
	course, err := s.repo.Course().GetByID(ctx, nil, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !authz.CoursesFor(actor).Allows(course.InstructorID, course.IsPublished) {
		return nil, ErrCourseNotFound
	}

	enrollment := &models.Enrollment{
		StudentID: actor.ID,
		CourseID:  req.CourseID,
		Status:    models.EnrollmentActive,
	}

	if err := s.repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, validator.ValidationErrors{{
				Field:   "course",
				Message: "is already enrolled",
				Rule:    "unique",
			}}
		}
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	s.publishEvent(ctx, events.NewEvent(events.EventEnrollmentCreated, &events.EnrollmentCreatedEvent{
		EnrollmentID: enrollment.ID,
		StudentID:    enrollment.StudentID,
		CourseID:     enrollment.CourseID,
		CourseTitle:  course.Title,
		EnrolledAt:   enrollment.EnrolledAt,
	}))

	s.logger.Info("Enrollment created", "enrollment_id", enrollment.ID)
	return s.GetByID(ctx, enrollment.ID, actor)
}

func (s *enrollmentService) Update(ctx context.Context, id uuid.UUID, req *UpdateEnrollmentRequest, actor authz.Actor) (*models.Enrollment, error) {
	s.logger.Info("Updating enrollment", "enrollment_id", id, "actor_id", actor.ID)

	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	enrollment, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != enrollment.Status {
		enrollment.Status = *req.Status
		if *req.Status == models.EnrollmentCompleted {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	}
	if req.Progress != nil {
		enrollment.Progress = *req.Progress
	}

	if err := s.repo.Enrollment().Update(ctx, nil, enrollment); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	return s.GetByID(ctx, id, actor)
}

func (s *enrollmentService) Delete(ctx context.Context, id uuid.UUID, actor authz.Actor) error {
	s.logger.Info("Deleting enrollment", "enrollment_id", id, "actor_id", actor.ID)

	if _, err := s.GetByID(ctx, id, actor); err != nil {
		return err
	}

	if err := s.repo.Enrollment().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}

	s.logger.Info("Enrollment deleted", "enrollment_id", id)
	return nil
}

func decorateEnrollment(enrollment *models.Enrollment) {
	enrollment.StudentName = enrollment.Student.FullName()
	enrollment.StudentEmail = enrollment.Student.Email
	enrollment.CourseTitle = enrollment.Course.Title
	course := enrollment.Course
	course.InstructorName = course.Instructor.FullName()
	enrollment.CourseDetails = &course
}

func (s *enrollmentService) publishEvent(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
