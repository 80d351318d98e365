package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vouchervault/server/internal/models"
)

// Profile handlers
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.svc.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProfileResponse{
		Status: "success",
		User:   user,
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), userID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProfileResponse{
		Status: "success",
		User:   user,
	})
}

// Notification handlers
func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.svc.ListNotifications(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if notifications == nil {
		notifications = []models.AppNotification{}
	}

	c.JSON(http.StatusOK, models.NotificationListResponse{
		Status:        "success",
		Notifications: notifications,
	})
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.svc.MarkAllNotificationsRead(c.Request.Context(), userID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Status: "success",
	})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.svc.MarkNotificationRead(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Status: "success",
	})
}
