package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/guideance-backend/internal/http/handlers"
	httpMW "github.com/yungbote/guideance-backend/internal/http/middleware"
	"github.com/yungbote/guideance-backend/internal/observability"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
	"github.com/yungbote/guideance-backend/internal/services"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware
	Notices        services.NoticeService

	HealthHandler  *httpH.HealthHandler
	AuthHandler    *httpH.AuthHandler
	UserHandler    *httpH.UserHandler
	TagHandler     *httpH.TagHandler
	ArticleHandler *httpH.ArticleHandler
	NoticeHandler  *httpH.NoticeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/signup", cfg.AuthHandler.Signup)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Users
		if cfg.UserHandler != nil {
			protected.PUT("/users/me", cfg.UserHandler.UpdateMe)
			protected.DELETE("/users/me", cfg.UserHandler.DeleteMe)
			protected.GET("/users/:id", cfg.UserHandler.GetUser)
			protected.GET("/users/:id/tags", cfg.UserHandler.ListTags)
			protected.GET("/users/:id/articles/writes", cfg.UserHandler.ListWrites)
			protected.GET("/users/:id/articles/likes", cfg.UserHandler.ListLikes)
			protected.GET("/users/:id/comments", cfg.UserHandler.ListComments)
		}

		// Tags
		if cfg.TagHandler != nil {
			protected.GET("/tags", cfg.TagHandler.Search)
			protected.POST("/tags", cfg.TagHandler.Create)
			protected.POST("/tags/:id/subscribe", cfg.TagHandler.Subscribe)
			protected.DELETE("/tags/:id/subscribe", cfg.TagHandler.Unsubscribe)
		}

		// Articles
		if cfg.ArticleHandler != nil {
			protected.POST("/articles", cfg.ArticleHandler.Publish)
			protected.GET("/articles/:id", cfg.ArticleHandler.Get)
			protected.PUT("/articles/:id/tags", cfg.ArticleHandler.Retag)
			protected.DELETE("/articles/:id", cfg.ArticleHandler.Delete)
			protected.PUT("/articles/:id/like", cfg.ArticleHandler.Like)
			protected.DELETE("/articles/:id/like", cfg.ArticleHandler.Unlike)
			protected.POST("/articles/:id/comments", cfg.ArticleHandler.AddComment)
			protected.DELETE("/comments/:id", cfg.ArticleHandler.DeleteComment)
		}

		// Notices
		if cfg.NoticeHandler != nil {
			protected.GET("/me/notices", cfg.NoticeHandler.List)
			protected.GET("/me/notices/unread-count", cfg.NoticeHandler.UnreadCount)
			protected.POST("/me/notices/read-all", cfg.NoticeHandler.MarkAllRead)

			owned := protected.Group("/notices/:id")
			if cfg.Notices != nil {
				owned.Use(httpMW.NoticeOwnership(cfg.Notices))
			}
			owned.POST("/read", cfg.NoticeHandler.MarkRead)
			owned.DELETE("", cfg.NoticeHandler.Delete)
		}
	}

	return r
}
