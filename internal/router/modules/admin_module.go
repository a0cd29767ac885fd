package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	Auth    gin.HandlerFunc
}

func NewAdminModule(h *handlers.AdminHandler, auth gin.HandlerFunc) *AdminModule {
	return &AdminModule{Handler: h, Auth: auth}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin")
	g.Use(m.Auth, middleware.RequireRole(entity.RoleAdmin))
	{
		g.GET("/sales", m.Handler.SalesReport)
	}
}
