package authz

import (
	"github.com/google/uuid"
)

// CourseScope narrows the course set visible to an actor. Repositories
// translate it to a single WHERE clause; no per-object checks are needed
// on the read path.
type CourseScope struct {
	// Unrestricted skips filtering entirely (admins).
	Unrestricted bool

	// PublishedOnly restricts to is_published = true.
	PublishedOnly bool

	// IncludeInstructorID, when set, widens the published-only filter with
	// OR instructor_id = <id> so instructors see their own drafts.
	IncludeInstructorID *uuid.UUID
}

// CoursesFor computes the visibility scope for course listings:
// admins see everything, instructors see published courses plus their own,
// students and anonymous actors see published courses only.
func CoursesFor(actor Actor) CourseScope {
	if IsAdmin(actor) {
		return CourseScope{Unrestricted: true}
	}
	scope := CourseScope{PublishedOnly: true}
	if IsInstructor(actor) {
		id := actor.ID
		scope.IncludeInstructorID = &id
	}
	return scope
}

// Allows reports whether a single course falls inside the scope. Used for
// object reads so a hidden draft behaves exactly as in listings.
func (s CourseScope) Allows(instructorID uuid.UUID, isPublished bool) bool {
	if s.Unrestricted {
		return true
	}
	if s.PublishedOnly && isPublished {
		return true
	}
	return s.IncludeInstructorID != nil && *s.IncludeInstructorID == instructorID
}

// EnrollmentScope narrows the enrollment set: admins unrestricted,
// instructors to enrollments of courses they teach, students to their own
// rows. The same scope gates both reads and mutations.
type EnrollmentScope struct {
	Unrestricted       bool
	StudentID          *uuid.UUID
	CourseInstructorID *uuid.UUID
}

func EnrollmentsFor(actor Actor) EnrollmentScope {
	switch {
	case IsStudent(actor):
		id := actor.ID
		return EnrollmentScope{StudentID: &id}
	case IsInstructor(actor):
		id := actor.ID
		return EnrollmentScope{CourseInstructorID: &id}
	default:
		// Admins fall through to the unfiltered base set; no other role
		// reaches enrollment endpoints unauthenticated.
		return EnrollmentScope{Unrestricted: true}
	}
}

// Allows reports whether a single enrollment row is inside the scope.
func (s EnrollmentScope) Allows(studentID, courseInstructorID uuid.UUID) bool {
	if s.Unrestricted {
		return true
	}
	if s.StudentID != nil {
		return *s.StudentID == studentID
	}
	return s.CourseInstructorID != nil && *s.CourseInstructorID == courseInstructorID
}

// MyCoursesScope selects the "my courses" derived view: courses an
// instructor teaches, courses backing a student's enrollments, or nothing.
type MyCoursesScope struct {
	TaughtBy   *uuid.UUID
	EnrolledBy *uuid.UUID
	Empty      bool
}

func MyCoursesFor(actor Actor) MyCoursesScope {
	switch {
	case IsInstructor(actor):
		id := actor.ID
		return MyCoursesScope{TaughtBy: &id}
	case IsStudent(actor):
		id := actor.ID
		return MyCoursesScope{EnrolledBy: &id}
	default:
		return MyCoursesScope{Empty: true}
	}
}
