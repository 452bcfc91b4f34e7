package handlers

import (
	"net/http"

	"github.com/Tuukari/smotrelka34/internal/config"
	"github.com/Tuukari/smotrelka34/internal/utils"

	"github.com/gin-gonic/gin"
)

// ListPosts GET /api/posts?source=&page=&tags=，上游失败时返回空数组
func (h *Handler) ListPosts(c *gin.Context) {
	source := c.DefaultQuery("source", config.DefaultBackend)
	page := utils.PageOrDefault(c.Query("page"))
	tags := c.Query("tags")

	posts := h.booru.FetchPosts(c.Request.Context(), source, page, tags)
	c.JSON(http.StatusOK, posts)
}
