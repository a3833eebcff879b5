package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/models"
)

func actorWithRole(role models.UserRole) Actor {
	return Actor{ID: uuid.New(), Role: role, Authenticated: true}
}

func TestRolePredicates(t *testing.T) {
	admin := actorWithRole(models.RoleAdmin)
	instructor := actorWithRole(models.RoleInstructor)
	student := actorWithRole(models.RoleStudent)

	tests := []struct {
		name  string
		pred  func(Actor) bool
		actor Actor
		want  bool
	}{
		{"admin is admin", IsAdmin, admin, true},
		{"instructor is not admin", IsAdmin, instructor, false},
		{"anonymous is not admin", IsAdmin, Anonymous, false},
		{"instructor is instructor", IsInstructor, instructor, true},
		{"student is not instructor", IsInstructor, student, false},
		{"student is student", IsStudent, student, true},
		{"admin is not student", IsStudent, admin, false},
		{"anonymous is not student", IsStudent, Anonymous, false},
		{"admin passes admin-or-instructor", IsAdminOrInstructor, admin, true},
		{"instructor passes admin-or-instructor", IsAdminOrInstructor, instructor, true},
		{"student fails admin-or-instructor", IsAdminOrInstructor, student, false},
		{"anonymous fails admin-or-instructor", IsAdminOrInstructor, Anonymous, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.actor); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPredicatesRejectUnauthenticatedWithRole(t *testing.T) {
	// A role carried by an unauthenticated actor must never grant anything.
	forged := Actor{ID: uuid.New(), Role: models.RoleAdmin, Authenticated: false}
	if IsAdmin(forged) || IsAdminOrInstructor(forged) {
		t.Error("unauthenticated actor with admin role must evaluate to false")
	}
}

func TestIsOwnerOrAdmin(t *testing.T) {
	owner := actorWithRole(models.RoleInstructor)
	courseInstructorID := owner.ID

	tests := []struct {
		name  string
		actor Actor
		want  bool
	}{
		{"owning instructor", owner, true},
		{"any admin", actorWithRole(models.RoleAdmin), true},
		{"other instructor", actorWithRole(models.RoleInstructor), false},
		{"student", actorWithRole(models.RoleStudent), false},
		{"anonymous", Anonymous, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOwnerOrAdmin(tt.actor, courseInstructorID); got != tt.want {
				t.Errorf("IsOwnerOrAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoursesFor(t *testing.T) {
	admin := actorWithRole(models.RoleAdmin)
	instructor := actorWithRole(models.RoleInstructor)
	student := actorWithRole(models.RoleStudent)

	t.Run("admin unrestricted", func(t *testing.T) {
		scope := CoursesFor(admin)
		if !scope.Unrestricted {
			t.Fatal("admin scope must be unrestricted")
		}
	})

	t.Run("instructor sees published plus own drafts", func(t *testing.T) {
		scope := CoursesFor(instructor)
		if scope.Unrestricted {
			t.Fatal("instructor scope must not be unrestricted")
		}
		if !scope.PublishedOnly {
			t.Error("instructor scope must include the published filter")
		}
		if scope.IncludeInstructorID == nil || *scope.IncludeInstructorID != instructor.ID {
			t.Error("instructor scope must widen to the instructor's own courses")
		}
	})

	t.Run("student sees published only", func(t *testing.T) {
		scope := CoursesFor(student)
		if scope.Unrestricted || !scope.PublishedOnly || scope.IncludeInstructorID != nil {
			t.Errorf("unexpected student scope: %+v", scope)
		}
	})

	t.Run("anonymous sees published only", func(t *testing.T) {
		scope := CoursesFor(Anonymous)
		if scope.Unrestricted || !scope.PublishedOnly || scope.IncludeInstructorID != nil {
			t.Errorf("unexpected anonymous scope: %+v", scope)
		}
	})
}

// Scenario from the visibility rules: instructor A owns unpublished course C.
// B must not see it, an admin must, and everyone sees it once published.
func TestCourseScopeUnpublishedScenario(t *testing.T) {
	instructorA := actorWithRole(models.RoleInstructor)
	instructorB := actorWithRole(models.RoleInstructor)
	admin := actorWithRole(models.RoleAdmin)
	student := actorWithRole(models.RoleStudent)

	const unpublished = false

	if !CoursesFor(instructorA).Allows(instructorA.ID, unpublished) {
		t.Error("owner must see own unpublished course")
	}
	if CoursesFor(instructorB).Allows(instructorA.ID, unpublished) {
		t.Error("other instructor must not see the unpublished course")
	}
	if !CoursesFor(admin).Allows(instructorA.ID, unpublished) {
		t.Error("admin must see the unpublished course")
	}
	if CoursesFor(student).Allows(instructorA.ID, unpublished) {
		t.Error("student must not see the unpublished course")
	}
	if CoursesFor(Anonymous).Allows(instructorA.ID, unpublished) {
		t.Error("anonymous must not see the unpublished course")
	}

	// A publishes C.
	const published = true
	for name, actor := range map[string]Actor{
		"owner": instructorA, "other instructor": instructorB,
		"admin": admin, "student": student, "anonymous": Anonymous,
	} {
		if !CoursesFor(actor).Allows(instructorA.ID, published) {
			t.Errorf("%s must see the published course", name)
		}
	}
}

func TestEnrollmentsFor(t *testing.T) {
	admin := actorWithRole(models.RoleAdmin)
	instructor := actorWithRole(models.RoleInstructor)
	student := actorWithRole(models.RoleStudent)

	t.Run("student scoped to own rows", func(t *testing.T) {
		scope := EnrollmentsFor(student)
		if scope.Unrestricted || scope.StudentID == nil || *scope.StudentID != student.ID {
			t.Errorf("unexpected scope: %+v", scope)
		}
		if !scope.Allows(student.ID, instructor.ID) {
			t.Error("student must see own enrollment")
		}
		if scope.Allows(uuid.New(), instructor.ID) {
			t.Error("student must not see another student's enrollment")
		}
	})

	t.Run("instructor scoped to taught courses", func(t *testing.T) {
		scope := EnrollmentsFor(instructor)
		if scope.CourseInstructorID == nil || *scope.CourseInstructorID != instructor.ID {
			t.Errorf("unexpected scope: %+v", scope)
		}
		if !scope.Allows(student.ID, instructor.ID) {
			t.Error("instructor must see enrollments of own courses")
		}
		if scope.Allows(student.ID, uuid.New()) {
			t.Error("instructor must not see enrollments of other courses")
		}
	})

	t.Run("admin falls through unfiltered", func(t *testing.T) {
		scope := EnrollmentsFor(admin)
		if !scope.Unrestricted {
			t.Errorf("unexpected scope: %+v", scope)
		}
		if !scope.Allows(uuid.New(), uuid.New()) {
			t.Error("admin must see every enrollment")
		}
	})
}

func TestMyCoursesFor(t *testing.T) {
	instructor := actorWithRole(models.RoleInstructor)
	student := actorWithRole(models.RoleStudent)
	admin := actorWithRole(models.RoleAdmin)

	if scope := MyCoursesFor(instructor); scope.TaughtBy == nil || *scope.TaughtBy != instructor.ID {
		t.Errorf("instructor: unexpected scope %+v", scope)
	}
	if scope := MyCoursesFor(student); scope.EnrolledBy == nil || *scope.EnrolledBy != student.ID {
		t.Errorf("student: unexpected scope %+v", scope)
	}
	if scope := MyCoursesFor(admin); !scope.Empty {
		t.Errorf("admin: expected empty scope, got %+v", scope)
	}
	if scope := MyCoursesFor(Anonymous); !scope.Empty {
		t.Errorf("anonymous: expected empty scope, got %+v", scope)
	}
}
