package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/pkg/response"
)

type AdminHandler struct {
	Sales  *app.SalesService
	Logger *logrus.Logger
}

func NewAdminHandler(sales *app.SalesService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Sales: sales, Logger: logger}
}

func (h *AdminHandler) SalesReport(c *gin.Context) {
	report, err := h.Sales.Sales(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, report, "sales", nil)
}
