package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Tuukari/smotrelka34/internal/middleware"
	"github.com/Tuukari/smotrelka34/internal/models"
	"github.com/Tuukari/smotrelka34/internal/services"

	"github.com/gin-gonic/gin"
)

type ToggleRequest struct {
	ImageURL     string      `json:"image_url"`
	ThumbnailURL string      `json:"thumbnail_url"`
	Source       *string     `json:"source"`
	PostID       json.Number `json:"post_id"` // 上游可能给字符串或数字
}

func (r ToggleRequest) input() services.ToggleInput {
	in := services.ToggleInput{
		ImageURL:     r.ImageURL,
		ThumbnailURL: r.ThumbnailURL,
		Source:       r.Source,
	}
	if id, err := r.PostID.Int64(); err == nil {
		in.PostID = &id
	}
	return in
}

// 每种交互的响应字段与提示文案
var toggleReplies = map[models.InteractionKind]struct {
	field, on, off string
}{
	models.KindLike: {"liked", "Liked", "Unliked"},
	models.KindSave: {"saved", "Saved", "Removed from saved"},
}

func (h *Handler) ToggleLike(c *gin.Context) { h.toggle(c, models.KindLike) }

func (h *Handler) ToggleSave(c *gin.Context) { h.toggle(c, models.KindSave) }

func (h *Handler) ListLikes(c *gin.Context) { h.list(c, models.KindLike) }

func (h *Handler) ListSaved(c *gin.Context) { h.list(c, models.KindSave) }

func (h *Handler) toggle(c *gin.Context, kind models.InteractionKind) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	active, err := h.interactions.Toggle(c.Request.Context(), kind, middleware.CurrentUserID(c), req.input())
	if err != nil {
		if errors.Is(err, services.ErrMissingImageURL) {
			jsonError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(c, "Failed to update "+string(kind), err)
		return
	}

	reply := toggleReplies[kind]
	msg := reply.off
	if active {
		msg = reply.on
	}
	c.JSON(http.StatusOK, gin.H{reply.field: active, "message": msg})
}

func (h *Handler) list(c *gin.Context, kind models.InteractionKind) {
	posts, err := h.interactions.List(c.Request.Context(), kind, middleware.CurrentUserID(c))
	if err != nil {
		h.internalError(c, "Failed to load "+string(kind)+"s", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
