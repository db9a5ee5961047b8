package api

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/bookmarks/docs"
	"github.com/d60-Lab/bookmarks/internal/api/handler"
	"github.com/d60-Lab/bookmarks/internal/api/middleware"
	"github.com/d60-Lab/bookmarks/pkg/auth"
)

// RouterOptions 路由可选项
type RouterOptions struct {
	ServiceName string
	Tracing     bool
	RateLimiter *middleware.RateLimiter
}

// NewRouter 注册全部路由
func NewRouter(h *handler.Handler, tokens *auth.TokenManager, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), middleware.Recovery())
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	if opts.RateLimiter != nil {
		v1.Use(opts.RateLimiter.Middleware())
	}

	account := v1.Group("/account")
	{
		account.POST("/register", h.Register)
		account.POST("/login", h.Login)
	}

	users := v1.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/:user_id", h.GetUser)
		users.GET("/:user_id/following", h.ListFollowing)
		users.GET("/:user_id/followers", h.ListFollowers)
		users.GET("/:user_id/likes", h.ListLikedImages)
	}

	images := v1.Group("/images")
	{
		images.GET("", h.ListImages)
		images.GET("/ranking", h.ImageRanking)
		images.GET("/:id", h.ImageDetail)
	}

	authed := v1.Group("", middleware.Auth(tokens))
	{
		authed.GET("/dashboard", h.Dashboard)
		authed.POST("/relations/follow", h.Follow)
		authed.POST("/relations/unfollow", h.Unfollow)
		authed.POST("/images", h.CreateImage)
		authed.POST("/images/:id/like", h.LikeImage)
		authed.POST("/images/:id/unlike", h.UnlikeImage)
	}

	return r
}
