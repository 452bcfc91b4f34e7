package handlers

import (
	"errors"
	"net/http"

	"github.com/Tuukari/smotrelka34/internal/middleware"
	"github.com/Tuukari/smotrelka34/internal/services"

	"github.com/gin-gonic/gin"
)

type UpdateProfileRequest struct {
	AvatarURL *string `json:"avatar_url"`
}

// CurrentUser GET /api/user，未登录也返回 200
func (h *Handler) CurrentUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"is_logged_in": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_logged_in": true,
		"username":     user.Username,
		"avatar":       user.AvatarURL,
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, services.ErrNoProfileData.Error())
		return
	}

	user, err := h.accounts.UpdateAvatar(c.Request.Context(), middleware.CurrentUserID(c), req.AvatarURL)
	if err != nil {
		if errors.Is(err, services.ErrNoProfileData) {
			jsonError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(c, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "avatar": user.AvatarURL})
}
