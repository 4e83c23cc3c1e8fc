package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests about the caller's own account.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

func registerAccountRoutes(me *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	me.GET("", h.getMe)
	me.PUT("", h.updateProfile)
	me.PUT("/password", h.changePassword)
}

// getMe godoc
// @Summary Get the caller's account
// @Tags account
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me [get]
func (h *accountHandler) getMe(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetAccount(c.Request.Context(), username)
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateProfile godoc
// @Summary Update profile
// @Description Changes full name and/or email. Username and account number cannot be changed.
// @Tags account
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me [put]
func (h *accountHandler) updateProfile(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	account, err := h.accountService.UpdateProfile(c.Request.Context(), username, req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// changePassword godoc
// @Summary Change password
// @Tags account
// @Accept json
// @Param password body dto.ChangePasswordRequest true "Current and new password"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me/password [put]
func (h *accountHandler) changePassword(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.accountService.ChangePassword(c.Request.Context(), username, req); err != nil {
		respondError(c, err, "Failed to change password")
		return
	}
	c.Status(http.StatusNoContent)
}
