package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
)

type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/users")
	g.Use(m.Auth)
	{
		g.GET("/me/courses", m.Handler.MyCourses)
	}
}
