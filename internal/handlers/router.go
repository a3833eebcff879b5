package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlms/lms-service/internal/models"
	"github.com/openlms/lms-service/internal/repositories"
	"github.com/openlms/lms-service/internal/services"
	"github.com/openlms/lms-service/internal/utils"
)

// HandlerManager owns every HTTP handler and the route table.
type HandlerManager struct {
	auth       *AuthHandler
	category   *CategoryHandler
	course     *CourseHandler
	enrollment *EnrollmentHandler
	dashboard  *DashboardHandler

	middleware *AuthMiddleware
	services   services.ServiceManager
	logger     utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	jwt *utils.JWTManager,
	users repositories.UserRepository,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		auth:       NewAuthHandler(serviceManager.Auth(), logger),
		category:   NewCategoryHandler(serviceManager.Category(), logger),
		course:     NewCourseHandler(serviceManager.Course(), logger),
		enrollment: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		dashboard:  NewDashboardHandler(serviceManager.Dashboard(), logger),
		middleware: NewAuthMiddleware(jwt, users, logger),
		services:   serviceManager,
		logger:     logger,
	}
}

// SetupRoutes registers every route on the router. Role lists are explicit
// per route; no role is implied by another.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", hm.auth.Register)
		auth.POST("/login", hm.auth.Login)
		auth.POST("/forget-password", hm.auth.ForgetPassword)
		auth.POST("/reset-password", hm.auth.ResetPassword)

		auth.POST("/logout", hm.middleware.RequireAuth(), hm.auth.Logout)
		auth.GET("/profile", hm.middleware.RequireAuth(), hm.auth.GetProfile)
		auth.PUT("/profile", hm.middleware.RequireAuth(), hm.auth.UpdateProfile)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", hm.middleware.OptionalAuth(), hm.category.List)
		categories.GET("/:id", hm.middleware.OptionalAuth(), hm.category.GetByID)

		staff := hm.middleware.RequireRole(models.RoleAdmin, models.RoleInstructor)
		categories.POST("", hm.middleware.RequireAuth(), staff, hm.category.Create)
		categories.PUT("/:id", hm.middleware.RequireAuth(), staff, hm.category.Update)
		categories.DELETE("/:id", hm.middleware.RequireAuth(), staff, hm.category.Delete)
	}

	courses := v1.Group("/courses")
	{
		courses.GET("", hm.middleware.OptionalAuth(), hm.course.List)
		courses.GET("/my_courses", hm.middleware.RequireAuth(), hm.course.ListMine)
		courses.GET("/:id", hm.middleware.OptionalAuth(), hm.course.GetByID)

		staff := hm.middleware.RequireRole(models.RoleAdmin, models.RoleInstructor)
		courses.POST("", hm.middleware.RequireAuth(), staff, hm.course.Create)
		// Ownership beyond the role check is enforced in the service.
		courses.PUT("/:id", hm.middleware.RequireAuth(), staff, hm.course.Update)
		courses.PATCH("/:id", hm.middleware.RequireAuth(), staff, hm.course.Update)
		courses.DELETE("/:id", hm.middleware.RequireAuth(), staff, hm.course.Delete)
	}

	enrollments := v1.Group("/enrollments")
	enrollments.Use(hm.middleware.RequireAuth())
	{
		enrollments.GET("", hm.enrollment.List)
		enrollments.GET("/:id", hm.enrollment.GetByID)
		enrollments.POST("", hm.enrollment.Create)
		enrollments.PUT("/:id", hm.enrollment.Update)
		enrollments.DELETE("/:id", hm.enrollment.Delete)
	}

	adminOnly := hm.middleware.RequireRole(models.RoleAdmin)
	staffOnly := hm.middleware.RequireRole(models.RoleAdmin, models.RoleInstructor)

	dashboard := v1.Group("/dashboard")
	dashboard.Use(hm.middleware.RequireAuth())
	{
		dashboard.GET("/stats", adminOnly, hm.dashboard.GetStats)
	}

	reports := v1.Group("/reports")
	reports.Use(hm.middleware.RequireAuth())
	{
		reports.GET("/enrollments", adminOnly, hm.dashboard.EnrollmentReport)
		reports.GET("/enrollments/export", adminOnly, hm.dashboard.ExportEnrollmentReport)
		reports.GET("/courses", staffOnly, hm.dashboard.CourseReport)
		reports.GET("/courses/export", staffOnly, hm.dashboard.ExportCourseReport)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.services.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "lms-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
