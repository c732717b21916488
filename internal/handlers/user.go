package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teaminsight/internal/assessment"
	"teaminsight/internal/repository"
	"teaminsight/internal/utils"
)

// deleteConfirmation must be typed to delete an account.
const deleteConfirmation = "DELETE"

type UserHandler struct {
	log      *zap.Logger
	users    *repository.UserRepository
	registry *assessment.Registry
}

func NewUserHandler(log *zap.Logger, users *repository.UserRepository, registry *assessment.Registry) *UserHandler {
	return &UserHandler{log: log, users: users, registry: registry}
}

type updateInfoRequest struct {
	DisplayName string `json:"display_name"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type deleteAccountRequest struct {
	Password     string `json:"password" binding:"required"`
	Confirmation string `json:"confirmation" binding:"required"`
}

func (h *UserHandler) ShowProfile(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdateInfo(c *gin.Context) {
	user, _ := CurrentUser(c)
	var req updateInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", "")
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if err := h.users.UpdateDisplayName(c.Request.Context(), user.ID, name); err != nil {
		h.log.Error("Failed to update user info", zap.Error(err), zap.String("userID", user.ID))
		respondError(c, http.StatusInternalServerError, "failed to update profile", "")
		return
	}
	user.DisplayName = name
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	user, _ := CurrentUser(c)
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "all password fields are required", "")
		return
	}
	if !user.CheckPassword(req.CurrentPassword) {
		respondError(c, http.StatusForbidden, "incorrect current password", "")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondError(c, http.StatusBadRequest, "new passwords do not match", "")
		return
	}
	if !utils.IsComplexPassword(req.NewPassword) {
		respondError(c, http.StatusBadRequest, "password must be at least 8 characters and mix upper, lower, digit and symbol", "")
		return
	}
	if err := h.users.UpdateUserPassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
		h.log.Error("Failed to update password", zap.Error(err), zap.String("userID", user.ID))
		respondError(c, http.StatusInternalServerError, "failed to update password", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteAccount removes the user and all their results, then logs out.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	user, _ := CurrentUser(c)
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirmation != deleteConfirmation {
		respondError(c, http.StatusBadRequest, "please type DELETE to confirm", "")
		return
	}
	if !user.CheckPassword(req.Password) {
		respondError(c, http.StatusForbidden, "incorrect password", "")
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), user.ID); err != nil {
		h.log.Error("Failed to delete account", zap.Error(err), zap.String("userID", user.ID))
		respondError(c, http.StatusInternalServerError, "failed to delete account", "")
		return
	}
	if err := endSession(c, h.registry); err != nil {
		h.log.Warn("Failed to clear session after account deletion", zap.Error(err))
	}
	h.log.Info("Account deleted", zap.String("userID", user.ID))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
