package router

import (
	"path/filepath"

	"github.com/Tuukari/smotrelka34/internal/config"
	"github.com/Tuukari/smotrelka34/internal/handlers"
	"github.com/Tuukari/smotrelka34/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New 组装 gin 引擎：session、模板、用户加载中间件与全部路由
func New(cfg config.Config, db *gorm.DB, h *handlers.Handler, templatesDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
	})
	r.Use(sessions.Sessions(middleware.SessionName, store))

	if templatesDir != "" {
		r.HTMLRender = loadTemplates(templatesDir)
		r.Static("/static", filepath.Join(filepath.Dir(templatesDir), "static"))
	}

	r.Use(middleware.LoadUser(db))

	RegisterRoutes(r, h)
	return r
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler) {
	// 公共路由 (Public Routes)
	r.GET("/", h.Index)                 // 首页
	r.GET("/health", h.Health)          // 健康检查
	r.GET("/api/posts", h.ListPosts)    // 代理上游搜索
	r.GET("/api/user", h.CurrentUser)   // 当前登录状态
	r.POST("/api/register", h.Register) // 注册并登录
	r.POST("/api/login", h.Login)       // 登录

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/api")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/logout", h.Logout)             // 退出登录
		authorized.POST("/user/update", h.UpdateProfile) // 更新头像
		authorized.POST("/like", h.ToggleLike)           // 喜欢/取消喜欢
		authorized.POST("/save", h.ToggleSave)           // 收藏/取消收藏
		authorized.GET("/user/likes", h.ListLikes)       // 我的喜欢
		authorized.GET("/user/saved", h.ListSaved)       // 我的收藏
	}
}
