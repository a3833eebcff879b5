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

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters, actor authz.Actor) (*CourseListResponse, error) {
	scope := authz.CoursesFor(actor)

	courses, total, err := s.repo.Course().List(ctx, nil, scope, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	if err := s.decorate(ctx, courses, actor); err != nil {
		return nil, err
	}

	return &CourseListResponse{
		Courses: courses,
		Total:   total,
		Page:    (filters.Offset / max(filters.Limit, 1)) + 1,
		Size:    filters.Limit,
	}, nil
}

func (s *courseService) GetByID(ctx context.Context, id uuid.UUID, actor authz.Actor) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	// A draft outside the actor's scope reads exactly like a missing row.
	if !authz.CoursesFor(actor).Allows(course.InstructorID, course.IsPublished) {
		return nil, ErrCourseNotFound
	}

	if err := s.decorate(ctx, []*models.Course{course}, actor); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) ListMine(ctx context.Context, actor authz.Actor) ([]*models.Course, error) {
	courses, err := s.repo.Course().ListMine(ctx, nil, authz.MyCoursesFor(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to list my courses: %w", err)
	}
	if err := s.decorate(ctx, courses, actor); err != nil {
		return nil, err
	}
	return courses, nil
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, actor authz.Actor) (*models.Course, error) {
	s.logger.Info("Creating course", "title", req.Title, "actor_id", actor.ID)

	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}
	if !authz.IsAdminOrInstructor(actor) {
		return nil, NewPermissionError(actor.ID, uuid.Nil, "course", "create", "requires admin or instructor role")
	}

	instructorID, err := s.resolveInstructor(ctx, req.InstructorID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		InstructorID: instructorID,
		Thumbnail:    req.Thumbnail,
		Difficulty:   difficulty,
		Duration:     req.Duration,
		Price:        req.Price,
		IsPublished:  req.IsPublished,
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	if course.IsPublished {
		s.publishCoursePublished(ctx, course)
	}

	s.logger.Info("Course created", "course_id", course.ID, "instructor_id", instructorID)
	return s.GetByID(ctx, course.ID, actor)
}

func (s *courseService) Update(ctx context.Context, id uuid.UUID, req *UpdateCourseRequest, actor authz.Actor) (*models.Course, error) {
	s.logger.Info("Updating course", "course_id", id, "actor_id", actor.ID)

	if errors := s.validator.Validate(req); len(errors) > 0 {
		return nil, errors
	}

	course, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !authz.IsOwnerOrAdmin(actor, course.InstructorID) {
		return nil, NewPermissionError(actor.ID, id, "course", "update", "not owner or insufficient permissions")
	}
	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	wasPublished := course.IsPublished

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.CategoryID != nil {
		course.CategoryID = req.CategoryID
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.repo.Course().Update(ctx, nil, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	if !wasPublished && course.IsPublished {
		s.publishCoursePublished(ctx, course)
	}

	return s.GetByID(ctx, id, actor)
}

func (s *courseService) Delete(ctx context.Context, id uuid.UUID, actor authz.Actor) error {
	s.logger.Info("Deleting course", "course_id", id, "actor_id", actor.ID)

	course, err := s.GetByID(ctx, id, actor)
	if err != nil {
		return err
	}
	if !authz.IsOwnerOrAdmin(actor, course.InstructorID) {
		return NewPermissionError(actor.ID, id, "course", "delete", "not owner or insufficient permissions")
	}

	// Enrollments cascade with the course.
	if err := s.repo.Course().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.logger.Info("Course deleted", "course_id", id)
	return nil
}

// resolveInstructor decides course ownership: instructors always own what
// they create, admins must name an instructor user.
func (s *courseService) resolveInstructor(ctx context.Context, requested *uuid.UUID, actor authz.Actor) (uuid.UUID, error) {
	if authz.IsInstructor(actor) {
		return actor.ID, nil
	}

	if requested == nil {
		return uuid.Nil, validator.ValidationErrors{{
			Field:   "instructor",
			Message: "is required",
			Rule:    "required",
		}}
	}

	user, err := s.repo.User().GetByID(ctx, nil, *requested)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return uuid.Nil, validator.ValidationErrors{{
				Field:   "instructor",
				Message: "must reference an existing user",
				Rule:    "exists",
			}}
		}
		return uuid.Nil, fmt.Errorf("failed to look up instructor: %w", err)
	}
	if user.Role != models.RoleInstructor {
		return uuid.Nil, validator.ValidationErrors{{
			Field:   "instructor",
			Message: "must reference a user with the instructor role",
			Rule:    "role",
		}}
	}

	return user.ID, nil
}

func (s *courseService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.repo.Category().GetByID(ctx, nil, *categoryID); err != nil {
		if repositories.IsNotFoundError(err) {
			return validator.ValidationErrors{{
				Field:   "category",
				Message: "must reference an existing category",
				Rule:    "exists",
			}}
		}
		return fmt.Errorf("failed to look up category: %w", err)
	}
	return nil
}

// decorate fills the per-actor and relation-derived fields on course rows.
func (s *courseService) decorate(ctx context.Context, courses []*models.Course, actor authz.Actor) error {
	for _, course := range courses {
		course.InstructorName = course.Instructor.FullName()
		if course.Category != nil {
			course.CategoryName = course.Category.Name
		}
	}

	if !authz.IsStudent(actor) || len(courses) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
	}

	enrolled, err := s.repo.Course().EnrolledCourseIDs(ctx, nil, actor.ID, ids)
	if err != nil {
		return fmt.Errorf("failed to annotate enrollments: %w", err)
	}
	for _, course := range courses {
		course.IsEnrolled = enrolled[course.ID]
	}
	return nil
}

func (s *courseService) publishCoursePublished(ctx context.Context, course *models.Course) {
	if s.publisher == nil {
		return
	}
	event := events.NewEvent(events.EventCoursePublished, &events.CoursePublishedEvent{
		CourseID:     course.ID,
		Title:        course.Title,
		InstructorID: course.InstructorID,
		PublishedAt:  time.Now(),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
