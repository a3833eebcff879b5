package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlms/lms-service/internal/services"
	"github.com/openlms/lms-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// GetStats returns platform-wide counters.
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// EnrollmentReport returns every enrollment with student and course detail.
// GET /api/v1/reports/enrollments
func (h *DashboardHandler) EnrollmentReport(c *gin.Context) {
	report, err := h.service.EnrollmentReport(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CourseReport returns per-course figures, restricted to the requester's
// own courses for instructors.
// GET /api/v1/reports/courses
func (h *DashboardHandler) CourseReport(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	report, err := h.service.CourseReport(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportEnrollmentReport streams the enrollment report as a spreadsheet.
// GET /api/v1/reports/enrollments/export
func (h *DashboardHandler) ExportEnrollmentReport(c *gin.Context) {
	data, err := h.service.ExportEnrollmentReport(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Enrollment report exported", "bytes", len(data))
	h.writeSpreadsheet(c, "enrollments", data)
}

// ExportCourseReport streams the course report as a spreadsheet.
// GET /api/v1/reports/courses/export
func (h *DashboardHandler) ExportCourseReport(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	data, err := h.service.ExportCourseReport(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Course report exported", "bytes", len(data))
	h.writeSpreadsheet(c, "courses", data)
}

func (h *DashboardHandler) writeSpreadsheet(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
