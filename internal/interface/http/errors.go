package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/pkg/response"
)

// writeError maps service errors onto the response envelope. Anything it
// does not recognise is logged and hidden behind a 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{verr.Field: verr.Message})
	case errors.Is(err, app.ErrAlreadyEnrolled):
		response.Error[any](c, http.StatusConflict, "already enrolled in this course", nil)
	case errors.Is(err, app.ErrEmailTaken), errors.Is(err, app.ErrCourseTitleTaken):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, app.ErrInvalidSignature):
		response.Error[any](c, http.StatusBadRequest, "payment verification failed", nil)
	case errors.Is(err, app.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, app.ErrOrderNotFound):
		response.Error[any](c, http.StatusNotFound, "order not found", nil)
	case errors.Is(err, app.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case app.IsRetryable(err):
		response.Error[any](c, http.StatusServiceUnavailable, "payment service temporarily unavailable, please try again", nil)
	default:
		if logger == nil {
			logger = logrus.StandardLogger()
		}
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("unhandled error")
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
