package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vouchervault/server/internal/models"
)

// Voucher handlers
func (h *Handler) ListVouchers(c *gin.Context) {
	vouchers, err := h.svc.ListVouchers(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	if vouchers == nil {
		vouchers = []models.Voucher{}
	}

	c.JSON(http.StatusOK, models.VoucherListResponse{
		Status:   "success",
		Vouchers: vouchers,
	})
}

func (h *Handler) CreateVoucher(c *gin.Context) {
	var req models.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	voucher, err := h.svc.CreateVoucher(c.Request.Context(), userID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.VoucherResponse{
		Status:  "success",
		Voucher: voucher,
	})
}

func (h *Handler) GetVoucher(c *gin.Context) {
	voucher, err := h.svc.GetVoucher(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VoucherResponse{
		Status:  "success",
		Voucher: voucher,
	})
}

func (h *Handler) UpdateVoucher(c *gin.Context) {
	var req models.UpdateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	voucher, err := h.svc.UpdateVoucher(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VoucherResponse{
		Status:  "success",
		Voucher: voucher,
	})
}

func (h *Handler) DeleteVoucher(c *gin.Context) {
	if err := h.svc.DeleteVoucher(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  "success",
		Message: "Voucher deleted",
	})
}

// Redeem handles the strict redemption flow: an amount for plain vouchers, a
// specific unused code for pool-backed ones.
func (h *Handler) Redeem(c *gin.Context) {
	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	voucher, redemption, err := h.svc.Redeem(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RedeemResponse{
		Status:     "success",
		Voucher:    voucher,
		Redemption: redemption,
	})
}

// QuickRedeem handles the dashboard's clamped deduction.
func (h *Handler) QuickRedeem(c *gin.Context) {
	var req models.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	voucher, redemption, err := h.svc.QuickRedeem(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RedeemResponse{
		Status:     "success",
		Voucher:    voucher,
		Redemption: redemption,
	})
}

func (h *Handler) TransferVoucher(c *gin.Context) {
	var req models.TransferVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.svc.TransferVoucher(c.Request.Context(), userID(c), c.Param("id"), req.Email); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  "success",
		Message: "Voucher transferred",
	})
}
