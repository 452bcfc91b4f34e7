package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Tuukari/smotrelka34/internal/config"
	"github.com/Tuukari/smotrelka34/internal/middleware"
	"github.com/Tuukari/smotrelka34/internal/models"
	"github.com/Tuukari/smotrelka34/internal/services"

	"github.com/gin-gonic/gin"
)

// Handler 请求处理所需的全部依赖，启动时构造一次
type Handler struct {
	cfg          config.Config
	logger       *slog.Logger
	booru        *services.BooruService
	accounts     *services.AccountService
	interactions *services.InteractionService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	booru *services.BooruService,
	accounts *services.AccountService,
	interactions *services.InteractionService,
) *Handler {
	return &Handler{
		cfg:          cfg,
		logger:       logger,
		booru:        booru,
		accounts:     accounts,
		interactions: interactions,
	}
}

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// jsonError 统一的 {"error": msg} 响应
func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// internalError 记录日志后返回 500，不向客户端暴露细节
func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, "path", c.Request.URL.Path, "error", err)
	jsonError(c, http.StatusInternalServerError, msg)
}

func userPayload(user *models.User) gin.H {
	return gin.H{"username": user.Username, "avatar": user.AvatarURL}
}
