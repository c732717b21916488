package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teaminsight/internal/assessment"
	"teaminsight/internal/repository"
	"teaminsight/internal/utils"
)

type AuthHandler struct {
	log      *zap.Logger
	users    *repository.UserRepository
	registry *assessment.Registry
}

func NewAuthHandler(log *zap.Logger, users *repository.UserRepository, registry *assessment.Registry) *AuthHandler {
	return &AuthHandler{log: log, users: users, registry: registry}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Me reports who the caller is. Identity is resolved before the handler
// runs, so loading is always false.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil, "mode": "guest", "loading": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "mode": "authenticated", "loading": false})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required", "")
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !utils.IsValidEmail(email) {
		respondError(c, http.StatusBadRequest, "invalid email address", "")
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		respondError(c, http.StatusBadRequest, "password must be at least 8 characters and mix upper, lower, digit and symbol", "")
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), email, req.Password, strings.TrimSpace(req.DisplayName))
	if errors.Is(err, repository.ErrEmailTaken) {
		respondError(c, http.StatusConflict, err.Error(), "")
		return
	}
	if err != nil {
		h.log.Error("Error creating user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to register", "")
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	h.log.Info("User registered", zap.String("userID", user.ID))
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and password are required", "")
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		h.log.Error("Failed to look up user", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to login", "")
		return
	}
	if err != nil || !user.CheckPassword(req.Password) {
		respondError(c, http.StatusUnauthorized, "invalid email or password", "")
		return
	}

	if !h.startSession(c, user.ID) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := endSession(c, h.registry); err != nil {
		h.log.Error("Failed to clear session", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to logout", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": nil})
}

// startSession binds the user to the session and issues a new CSRF token.
// The in-progress assessment key is kept so a guest can finish signed in.
func (h *AuthHandler) startSession(c *gin.Context, userID string) bool {
	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		h.log.Error("Failed to generate CSRF token", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to login", "")
		return false
	}
	session := sessions.Default(c)
	session.Set(UserIDSessionKey, userID)
	session.Set(CSRFTokenSessionKey, token)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to login", "")
		return false
	}
	c.Header(CSRFHeader, token)
	return true
}

// endSession drops the identity together with any guest result and the
// in-progress assessment, including its registry entry.
func endSession(c *gin.Context, registry *assessment.Registry) error {
	session := sessions.Default(c)
	if key, _ := session.Get(assessmentKeySessionKey).(string); key != "" && registry != nil {
		registry.Remove(key)
	}
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}
