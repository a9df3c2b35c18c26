package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/guideance-backend/internal/http"
	httpH "github.com/yungbote/guideance-backend/internal/http/handlers"
	httpMW "github.com/yungbote/guideance-backend/internal/http/middleware"
	"github.com/yungbote/guideance-backend/internal/observability"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	User    *httpH.UserHandler
	Tag     *httpH.TagHandler
	Article *httpH.ArticleHandler
	Notice  *httpH.NoticeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Auth:    httpH.NewAuthHandler(services.Auth, services.User),
		User:    httpH.NewUserHandler(services.User, services.Subscription, services.Feed),
		Tag:     httpH.NewTagHandler(services.Tag, services.Subscription),
		Article: httpH.NewArticleHandler(services.Article, services.Engagement),
		Notice:  httpH.NewNoticeHandler(services.Notice),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, m *observability.Metrics, services Services, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(":"+cfg.Port, http.RouterConfig{
		Log:            log,
		Metrics:        m,
		ServiceName:    serviceName,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: middleware.Auth,
		Notices:        services.Notice,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		UserHandler:    handlers.User,
		TagHandler:     handlers.Tag,
		ArticleHandler: handlers.Article,
		NoticeHandler:  handlers.Notice,
	})
}
