package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openlms/lms-service/internal/authz"
	"github.com/openlms/lms-service/internal/events"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
	"github.com/openlms/lms-service/internal/validator"
)

func newCourseService(repo *mockRepository) (CourseService, *events.MockEventPublisher) {
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	return NewCourseService(repo, logger, validator.New(), publisher), publisher
}

func courseFixture(instructorID uuid.UUID, published bool) *models.Course {
	return &models.Course{
		ID:           uuid.New(),
		Title:        "Intro to Go",
		Description:  "A course",
		InstructorID: instructorID,
		Instructor:   models.User{ID: instructorID, FirstName: "Ida", Role: models.RoleInstructor},
		Difficulty:   models.DifficultyBeginner,
		IsPublished:  published,
	}
}

func TestCourseGetByIDVisibility(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	draft := courseFixture(owner, false)

	repo := &mockRepository{}
	repo.courses.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Course, error) {
		if id == draft.ID {
			return draft, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	svc, _ := newCourseService(repo)

	tests := []struct {
		name    string
		actor   authz.Actor
		wantErr error
	}{
		{
			name:    "owner sees own draft",
			actor:   authz.Actor{ID: owner, Role: models.RoleInstructor, Authenticated: true},
			wantErr: nil,
		},
		{
			name:    "admin sees any draft",
			actor:   authz.Actor{ID: uuid.New(), Role: models.RoleAdmin, Authenticated: true},
			wantErr: nil,
		},
		{
			name:    "other instructor gets not found",
			actor:   authz.Actor{ID: uuid.New(), Role: models.RoleInstructor, Authenticated: true},
			wantErr: ErrCourseNotFound,
		},
		{
			name:    "student gets not found",
			actor:   authz.Actor{ID: uuid.New(), Role: models.RoleStudent, Authenticated: true},
			wantErr: ErrCourseNotFound,
		},
		{
			name:    "anonymous gets not found",
			actor:   authz.Anonymous,
			wantErr: ErrCourseNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetByID(ctx, draft.ID, tt.actor)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetByID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCourseCreateOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("instructor always owns what they create", func(t *testing.T) {
		instructor := authz.Actor{ID: uuid.New(), Role: models.RoleInstructor, Authenticated: true}
		somebodyElse := uuid.New()

		var created *models.Course
		repo := &mockRepository{}
		repo.courses.CreateFn = func(ctx context.Context, course *models.Course) error {
			course.ID = uuid.New()
			course.Instructor = models.User{ID: course.InstructorID}
			created = course
			return nil
		}
		repo.courses.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Course, error) {
			return created, nil
		}
		svc, _ := newCourseService(repo)

		_, err := svc.Create(ctx, &CreateCourseRequest{
			Title:        "Course",
			Description:  "desc",
			InstructorID: &somebodyElse,
		}, instructor)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.InstructorID != instructor.ID {
			t.Errorf("instructor_id = %s, want acting instructor %s", created.InstructorID, instructor.ID)
		}
	})

	t.Run("admin must name an instructor user", func(t *testing.T) {
		admin := authz.Actor{ID: uuid.New(), Role: models.RoleAdmin, Authenticated: true}
		student := &models.User{ID: uuid.New(), Role: models.RoleStudent}

		repo := &mockRepository{}
		repo.users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			if id == student.ID {
				return student, nil
			}
			return nil, gorm.ErrRecordNotFound
		}
		svc, _ := newCourseService(repo)

		_, err := svc.Create(ctx, &CreateCourseRequest{Title: "Course", Description: "desc"}, admin)
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("missing instructor: expected validation errors, got %v", err)
		}

		_, err = svc.Create(ctx, &CreateCourseRequest{
			Title:        "Course",
			Description:  "desc",
			InstructorID: &student.ID,
		}, admin)
		if !errors.As(err, &verrs) {
			t.Fatalf("non-instructor user: expected validation errors, got %v", err)
		}
	})

	t.Run("student cannot create", func(t *testing.T) {
		repo := &mockRepository{}
		svc, _ := newCourseService(repo)

		actor := authz.Actor{ID: uuid.New(), Role: models.RoleStudent, Authenticated: true}
		_, err := svc.Create(ctx, &CreateCourseRequest{Title: "Course", Description: "desc"}, actor)
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})
}

func TestCourseUpdateOwnerOnly(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	course := courseFixture(owner, true)

	repo := &mockRepository{}
	repo.courses.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Course, error) {
		return course, nil
	}
	svc, _ := newCourseService(repo)

	otherInstructor := authz.Actor{ID: uuid.New(), Role: models.RoleInstructor, Authenticated: true}
	title := "New title"
	_, err := svc.Update(ctx, course.ID, &UpdateCourseRequest{Title: &title}, otherInstructor)
	if !IsPermissionError(err) {
		t.Errorf("expected permission error for non-owner, got %v", err)
	}
}

func TestCoursePublishEvent(t *testing.T) {
	ctx := context.Background()
	owner := authz.Actor{ID: uuid.New(), Role: models.RoleInstructor, Authenticated: true}
	course := courseFixture(owner.ID, false)

	repo := &mockRepository{}
	repo.courses.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Course, error) {
		return course, nil
	}
	svc, publisher := newCourseService(repo)

	published := true
	if _, err := svc.Update(ctx, course.ID, &UpdateCourseRequest{IsPublished: &published}, owner); err != nil {
		t.Fatalf("Update: %v", err)
	}

	recorded := publisher.GetPublishedEvents()
	if len(recorded) != 1 || recorded[0].Type != events.EventCoursePublished {
		t.Fatalf("expected one %s event, got %+v", events.EventCoursePublished, recorded)
	}

	// Re-publishing an already published course emits nothing.
	publisher.ClearEvents()
	if _, err := svc.Update(ctx, course.ID, &UpdateCourseRequest{IsPublished: &published}, owner); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := publisher.GetPublishedEvents(); len(got) != 0 {
		t.Errorf("expected no event for already-published course, got %+v", got)
	}
}

func TestCourseListAnnotatesEnrollment(t *testing.T) {
	ctx := context.Background()
	student := authz.Actor{ID: uuid.New(), Role: models.RoleStudent, Authenticated: true}

	enrolled := courseFixture(uuid.New(), true)
	notEnrolled := courseFixture(uuid.New(), true)

	repo := &mockRepository{}
	repo.courses.ListFn = func(ctx context.Context, scope authz.CourseScope, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
		if !scope.PublishedOnly || scope.Unrestricted {
			t.Error("student listing should be scoped to published courses")
		}
		return []*models.Course{enrolled, notEnrolled}, 2, nil
	}
	repo.courses.EnrolledCourseIDsFn = func(ctx context.Context, studentID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
		if studentID != student.ID {
			t.Errorf("enrollment lookup for %s, want acting student %s", studentID, student.ID)
		}
		return map[uuid.UUID]bool{enrolled.ID: true}, nil
	}
	svc, _ := newCourseService(repo)

	resp, err := svc.List(ctx, repositories.CourseFilters{Limit: 20}, student)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if !resp.Courses[0].IsEnrolled {
		t.Error("first course should be annotated as enrolled")
	}
	if resp.Courses[1].IsEnrolled {
		t.Error("second course should not be annotated as enrolled")
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
}
