package handlers

import (
	"errors"
	"net/http"

	"github.com/Tuukari/smotrelka34/internal/middleware"
	"github.com/Tuukari/smotrelka34/internal/services"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, services.ErrMissingCredentials.Error())
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) || errors.Is(err, services.ErrMissingCredentials) {
			jsonError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(c, "Failed to create user", err)
		return
	}

	if err := middleware.Login(c, user.ID); err != nil {
		h.internalError(c, "Failed to save session", err)
		return
	}

	h.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusOK, gin.H{"message": "Registered successfully", "user": userPayload(user)})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			jsonError(c, http.StatusUnauthorized, err.Error())
			return
		}
		h.internalError(c, "Database error", err)
		return
	}

	if err := middleware.Login(c, user.ID); err != nil {
		h.internalError(c, "Failed to save session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged in successfully", "user": userPayload(user)})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		h.internalError(c, "Failed to clear session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
