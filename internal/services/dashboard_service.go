package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/openlms/lms-service/internal/authz"
	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		logger: logger,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (*DashboardStatsResponse, error) {
	counts, err := s.repo.Dashboard().GetCounts(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard counts: %w", err)
	}

	return &DashboardStatsResponse{
		TotalUsers:        counts.TotalUsers,
		TotalStudents:     counts.TotalStudents,
		TotalInstructors:  counts.TotalInstructors,
		TotalCourses:      counts.TotalCourses,
		TotalEnrollments:  counts.TotalEnrollments,
		PublishedCourses:  counts.PublishedCourses,
		ActiveEnrollments: counts.ActiveEnrollments,
	}, nil
}

func (s *dashboardService) EnrollmentReport(ctx context.Context) ([]*models.Enrollment, error) {
	enrollments, err := s.repo.Dashboard().ListEnrollmentsForReport(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollment report: %w", err)
	}

	for _, enrollment := range enrollments {
		decorateEnrollment(enrollment)
	}
	return enrollments, nil
}

// CourseReport lists courses for reporting: admins see all, instructors
// only their own.
func (s *dashboardService) CourseReport(ctx context.Context, actor authz.Actor) ([]*models.Course, error) {
	var instructorID *uuid.UUID
	if authz.IsInstructor(actor) {
		id := actor.ID
		instructorID = &id
	}

	courses, err := s.repo.Dashboard().ListCoursesForReport(ctx, nil, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to build course report: %w", err)
	}

	for _, course := range courses {
		course.InstructorName = course.Instructor.FullName()
		if course.Category != nil {
			course.CategoryName = course.Category.Name
		}
	}
	return courses, nil
}

func (s *dashboardService) ExportEnrollmentReport(ctx context.Context) ([]byte, error) {
	enrollments, err := s.EnrollmentReport(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(enrollments)+1)
	rows = append(rows, []interface{}{
		"Student", "Email", "Course", "Status", "Progress", "Enrolled At", "Completed At",
	})
	for _, e := range enrollments {
		completedAt := ""
		if e.CompletedAt != nil {
			completedAt = e.CompletedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []interface{}{
			e.StudentName,
			e.StudentEmail,
			e.CourseTitle,
			string(e.Status),
			e.Progress,
			e.EnrolledAt.Format("2006-01-02 15:04"),
			completedAt,
		})
	}

	return renderSheet("Enrollments", rows)
}

func (s *dashboardService) ExportCourseReport(ctx context.Context, actor authz.Actor) ([]byte, error) {
	courses, err := s.CourseReport(ctx, actor)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(courses)+1)
	rows = append(rows, []interface{}{
		"Title", "Instructor", "Category", "Difficulty", "Price", "Published", "Enrollments", "Created At",
	})
	for _, c := range courses {
		rows = append(rows, []interface{}{
			c.Title,
			c.InstructorName,
			c.CategoryName,
			string(c.Difficulty),
			c.Price,
			c.IsPublished,
			c.EnrollmentCount,
			c.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	return renderSheet("Courses", rows)
}

// renderSheet writes rows into a single-sheet XLSX workbook: the first row
// is the header, one row per entry after it.
func renderSheet(name string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
