package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
	"github.com/openlms/lms-service/internal/services"
	"github.com/openlms/lms-service/internal/utils"
)

type EnrollmentHandler struct {
	BaseHandler
	service services.EnrollmentService
}

func NewEnrollmentHandler(service services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// List returns the enrollments within the requester's scope: students see
// their own, instructors see their courses', admins see everything.
// GET /api/v1/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	filters := repositories.EnrollmentFilters{
		CourseID: parseUUIDQuery(c, "course"),
	}
	filters.Limit, filters.Offset = parsePagination(c)
	if raw := c.Query("status"); raw != "" {
		status := models.EnrollmentStatus(raw)
		filters.Status = &status
	}

	resp, err := h.service.List(c.Request.Context(), filters, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID returns one enrollment if it is within the requester's scope.
// GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) GetByID(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.service.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// Create enrolls the requesting student in a course.
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Create(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	enrollment, err := h.service.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Enrollment created", "enrollment_id", enrollment.ID, "course_id", enrollment.CourseID)
	c.JSON(http.StatusCreated, enrollment)
}

// Update changes an enrollment's status or progress.
// PUT /api/v1/enrollments/:id
func (h *EnrollmentHandler) Update(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	enrollment, err := h.service.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Enrollment updated", "enrollment_id", id)
	c.JSON(http.StatusOK, enrollment)
}

// Delete drops an enrollment.
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actor); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Enrollment deleted", "enrollment_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Enrollment deleted"})
}
