package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
	"github.com/openlms/lms-service/internal/services"
	"github.com/openlms/lms-service/internal/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type CourseHandler struct {
	BaseHandler
	service services.CourseService
}

func NewCourseHandler(service services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// parsePagination reads page/size query params into limit and offset.
func parsePagination(c *gin.Context) (limit, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return size, (page - 1) * size
}

func parseUUIDQuery(c *gin.Context, name string) *uuid.UUID {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

// List returns the courses the requester is allowed to see, filtered and
// paginated.
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	filters := repositories.CourseFilters{
		CategoryID:   parseUUIDQuery(c, "category"),
		InstructorID: parseUUIDQuery(c, "instructor"),
		Query:        c.Query("search"),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
	}
	filters.Limit, filters.Offset = parsePagination(c)
	if raw := c.Query("difficulty"); raw != "" {
		difficulty := models.CourseDifficulty(raw)
		filters.Difficulty = &difficulty
	}

	resp, err := h.service.List(c.Request.Context(), filters, actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID returns one course if it is visible to the requester.
// GET /api/v1/courses/:id
func (h *CourseHandler) GetByID(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.service.GetByID(c.Request.Context(), id, actorFromContext(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// ListMine returns the courses the requester teaches or is enrolled in.
// GET /api/v1/courses/my_courses
func (h *CourseHandler) ListMine(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	courses, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// Create adds a course.
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.service.Create(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Course created", "course_id", course.ID, "instructor_id", course.InstructorID)
	c.JSON(http.StatusCreated, course)
}

// Update modifies a course the requester owns (or any course for admins).
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	course, err := h.service.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Course updated", "course_id", id)
	c.JSON(http.StatusOK, course)
}

// Delete removes a course the requester owns (or any course for admins).
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
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

	h.LogRequest(c, "Course deleted", "course_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}
