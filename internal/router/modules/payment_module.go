package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/course-marketplace/internal/interface/http"
)

type PaymentModule struct {
	Handler *handlers.PaymentHandler
	Auth    gin.HandlerFunc
}

func NewPaymentModule(h *handlers.PaymentHandler, auth gin.HandlerFunc) *PaymentModule {
	return &PaymentModule{Handler: h, Auth: auth}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/payments")
	g.Use(m.Auth)
	{
		g.POST("/orders", m.Handler.CreateOrder)
		g.POST("/verify", m.Handler.Verify)
	}
}
