package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vouchervault/server/internal/models"
)

// Family handlers
func (h *Handler) ListFamilies(c *gin.Context) {
	families, err := h.svc.ListFamilies(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if families == nil {
		families = []models.Family{}
	}

	c.JSON(http.StatusOK, models.FamilyListResponse{
		Status:   "success",
		Families: families,
	})
}

func (h *Handler) CreateFamily(c *gin.Context) {
	var req models.CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	family, err := h.svc.CreateFamily(c.Request.Context(), userID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.FamilyResponse{
		Status: "success",
		Family: family,
	})
}

func (h *Handler) UpdateFamily(c *gin.Context) {
	var req models.UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	family, err := h.svc.UpdateFamily(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FamilyResponse{
		Status: "success",
		Family: family,
	})
}

func (h *Handler) DeleteFamily(c *gin.Context) {
	if err := h.svc.DeleteFamily(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  "success",
		Message: "Family deleted",
	})
}

func (h *Handler) RemoveFamilyMember(c *gin.Context) {
	family, err := h.svc.RemoveFamilyMember(c.Request.Context(), userID(c), c.Param("id"), c.Param("memberId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.FamilyResponse{
		Status: "success",
		Family: family,
	})
}

// Invite handlers
func (h *Handler) CreateInvite(c *gin.Context) {
	var req models.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	invite, err := h.svc.CreateInvite(c.Request.Context(), userID(c), c.Param("id"), req.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.InviteResponse{
		Status: "success",
		Invite: invite,
	})
}

func (h *Handler) ListInvites(c *gin.Context) {
	invites, err := h.svc.ListInvites(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if invites == nil {
		invites = []models.FamilyInvite{}
	}

	c.JSON(http.StatusOK, models.InviteListResponse{
		Status:  "success",
		Invites: invites,
	})
}

func (h *Handler) RespondToInvite(c *gin.Context) {
	var req models.RespondInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	invite, err := h.svc.RespondToInvite(c.Request.Context(), userID(c), c.Param("id"), req.Response)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.InviteResponse{
		Status: "success",
		Invite: invite,
	})
}

func (h *Handler) DeleteInvite(c *gin.Context) {
	if err := h.svc.DeleteInvite(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  "success",
		Message: "Invite withdrawn",
	})
}
