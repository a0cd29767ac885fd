package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/interface/middleware"
	"github.com/oksasatya/course-marketplace/pkg/response"
	"github.com/oksasatya/course-marketplace/pkg/validation"
)

type PaymentHandler struct {
	Orders       *app.OrderService
	Verification *app.VerificationService
	// KeyID is the public gateway key the client needs to open checkout.
	KeyID  string
	Logger *logrus.Logger
}

func NewPaymentHandler(orders *app.OrderService, verification *app.VerificationService, keyID string, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Orders: orders, Verification: verification, KeyID: keyID, Logger: logger}
}

type createOrderRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Orders.CreateOrder(c.Request.Context(), middleware.CallerFrom(c), req.CourseID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"order_id":  res.OrderID,
		"course_id": res.CourseID,
		"amount":    toMoney(res.Amount),
		"key_id":    h.KeyID,
	}, "order created", nil)
}

func (h *PaymentHandler) Verify(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := h.Verification.VerifyPayment(c.Request.Context(), middleware.CallerFrom(c), app.VerifyPaymentInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEnrollment(e), "payment verified", nil)
}
