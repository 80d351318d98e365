package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vouchervault/server/internal/ledger"
	"github.com/vouchervault/server/internal/models"
	"github.com/vouchervault/server/internal/service"
)

// Handler holds the HTTP handlers for all API endpoints
type Handler struct {
	svc service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

// SetupRoutes registers all API routes on the router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/api/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
	}

	api := router.Group("/api")
	api.Use(AuthMiddleware())
	{
		api.GET("/vouchers", h.ListVouchers)
		api.POST("/vouchers", h.CreateVoucher)
		api.GET("/vouchers/:id", h.GetVoucher)
		api.PUT("/vouchers/:id", h.UpdateVoucher)
		api.DELETE("/vouchers/:id", h.DeleteVoucher)
		api.POST("/vouchers/:id/redeem", h.Redeem)
		api.POST("/vouchers/:id/quick-redeem", h.QuickRedeem)
		api.POST("/vouchers/:id/transfer", h.TransferVoucher)

		api.GET("/families", h.ListFamilies)
		api.POST("/families", h.CreateFamily)
		api.PUT("/families/:id", h.UpdateFamily)
		api.DELETE("/families/:id", h.DeleteFamily)
		api.DELETE("/families/:id/members/:memberId", h.RemoveFamilyMember)
		api.POST("/families/:id/invites", h.CreateInvite)

		api.GET("/invites", h.ListInvites)
		api.POST("/invites/:id/respond", h.RespondToInvite)
		api.DELETE("/invites/:id", h.DeleteInvite)

		api.GET("/profile", h.GetProfile)
		api.PUT("/profile", h.UpdateProfile)

		api.GET("/notifications", h.ListNotifications)
		api.POST("/notifications/read", h.MarkAllNotificationsRead)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
	}
}

// Authentication handlers
func (h *Handler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.SignUp(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Status:  "error",
			Code:    "SIGNUP_FAILED",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "UNAUTHORIZED",
			Message: "Invalid email or password",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// userID returns the authenticated user id set by the auth middleware.
func userID(c *gin.Context) string {
	return c.MustGet("userId").(string)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	})
}

// writeError maps service and ledger errors to HTTP responses. Validation
// failures are client errors; resolved invites and balance conflicts are
// conflicts; anything unrecognized is reported as an internal error.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"

	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		status, code = http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, ledger.ErrAmountExceedsBalance):
		status, code = http.StatusConflict, "AMOUNT_EXCEEDS_BALANCE"
	case errors.Is(err, ledger.ErrNoCodeSelected):
		status, code = http.StatusBadRequest, "NO_CODE_SELECTED"
	case errors.Is(err, ledger.ErrMissingRequiredField):
		status, code = http.StatusBadRequest, "MISSING_REQUIRED_FIELD"
	case errors.Is(err, service.ErrInvalidEmail):
		status, code = http.StatusBadRequest, "INVALID_EMAIL"
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, service.ErrInviteAlreadyResolved):
		status, code = http.StatusConflict, "INVITE_ALREADY_RESOLVED"
	case errors.Is(err, service.ErrTransferFailed):
		status, code = http.StatusConflict, "TRANSFER_FAILED"
	}

	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: err.Error(),
	})
}
