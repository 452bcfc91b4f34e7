package handlers

import (
	"net/http"

	"github.com/Tuukari/smotrelka34/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Index(c *gin.Context) {
	Render(c, http.StatusOK, "index.html", gin.H{
		"Notice":   utils.RenderMarkdown(h.cfg.SiteNotice),
		"Backends": []string{"safebooru", "gelbooru", "rule34"},
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
