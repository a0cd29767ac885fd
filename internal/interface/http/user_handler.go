package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/pkg/response"
)

type UserHandler struct {
	Entitlements *app.EntitlementService
	Logger       *logrus.Logger
}

func NewUserHandler(entitlements *app.EntitlementService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Entitlements: entitlements, Logger: logger}
}

// MyCourses lists the courses the caller has paid for.
func (h *UserHandler) MyCourses(c *gin.Context) {
	courses, err := h.Entitlements.ListEntitlements(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]courseView, 0, len(courses))
	for _, co := range courses {
		out = append(out, toCourse(co))
	}
	response.Success(c, http.StatusOK, out, "enrolled courses", map[string]any{"count": len(out)})
}
