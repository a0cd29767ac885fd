package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
)

// AuthModule wires registration and token endpoints.
// Public: POST /auth/register, /auth/login, /auth/refresh
// Protected: POST /auth/logout, GET /auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, auth gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/refresh", m.Handler.Refresh)

	auth := rg.Group("/auth")
	auth.Use(m.Auth)
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
