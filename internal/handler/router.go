package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/pkg/config"
)

// Handlers groups the portal route handlers.
type Handlers struct {
	Portal    *PortalHandler
	Catalog   *CatalogHandler
	Detail    *DetailHandler
	MyCourses *MyCoursesHandler
	Admin     *AdminHandler
}

// RegisterPortalRoutes mounts every portal intent under group.
func RegisterPortalRoutes(group *gin.RouterGroup, h Handlers, features config.FeatureConfig) {
	portal := group.Group("/portal")

	portal.GET("/state", h.Portal.State)
	portal.POST("/modals/:modal", h.Portal.OpenModal)
	portal.DELETE("/modals", h.Portal.CloseModal)
	portal.POST("/session", h.Portal.Login)
	portal.DELETE("/session", h.Portal.Logout)

	portal.GET("/catalog", h.Catalog.Get)
	portal.PUT("/catalog/filter", h.Catalog.SetFilter)
	portal.POST("/catalog/refresh", h.Catalog.Refresh)
	portal.GET("/catalog/export", middleware.RequireFeature("export", features.Export), h.Catalog.Export)

	portal.POST("/courses/:id/detail", h.Detail.Open)
	portal.GET("/detail", h.Detail.Get)
	portal.POST("/detail/enroll", h.Detail.Enroll)
	portal.POST("/detail/unenroll", h.Detail.Unenroll)
	portal.DELETE("/detail", h.Detail.Close)

	portal.GET("/my-courses", h.MyCourses.List)
	portal.DELETE("/my-courses/:courseId", h.MyCourses.Unenroll)

	admin := portal.Group("/admin", middleware.RequireFeature("admin", features.Admin))
	admin.GET("/courses", h.Admin.Courses)
	admin.POST("/courses", h.Admin.CreateCourse)
	admin.DELETE("/courses/:id/students", h.Admin.RemoveAllStudents)
}

// RegisterOpsRoutes mounts health, readiness and metrics.
func RegisterOpsRoutes(r gin.IRoutes, h *MetricsHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
}
