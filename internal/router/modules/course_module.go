package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
)

// CourseModule: course details are public; lecture access needs a login;
// authoring needs the admin role.
type CourseModule struct {
	Handler *handlers.CourseHandler
	Auth    gin.HandlerFunc
}

func NewCourseModule(h *handlers.CourseHandler, auth gin.HandlerFunc) *CourseModule {
	return &CourseModule{Handler: h, Auth: auth}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	rg.GET("/courses/:courseId", m.Handler.Details)

	g := rg.Group("/courses")
	g.Use(m.Auth)
	{
		g.GET("/:courseId/lectures/:lectureId", m.Handler.Lecture)
		g.POST("", middleware.RequireRole(entity.RoleAdmin), m.Handler.Create)
		g.POST("/:courseId/lectures", middleware.RequireRole(entity.RoleAdmin), m.Handler.AddLecture)
	}
}
