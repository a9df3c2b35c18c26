package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/observability"
	"github.com/yungbote/guideance-backend/internal/platform/distlock"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
	"github.com/yungbote/guideance-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Tag          services.TagService
	Subscription services.SubscriptionService
	Article      services.ArticleService
	Engagement   services.EngagementService
	Notice       services.NoticeService
	Feed         services.FeedService

	Fanout domainagg.NoticeFanoutAggregate
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, m *observability.Metrics) Services {
	log.Info("Wiring services...")

	fanout := aggregates.NewNoticeFanoutAggregate(aggregates.NoticeFanoutAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Runner: aggregates.NewGormTxRunner(db),
			Hooks:  aggregates.NewObservabilityHooks(m),
		},
		Articles:      r.Article,
		Tags:          r.Tag,
		Subscriptions: r.Subscription,
		Notices:       r.Notice,
	})

	locker := distlock.NewLocker(c.Redis, distlock.Options{TTL: cfg.FanoutLockTTL, Wait: cfg.FanoutLockWait})

	return Services{
		Auth: services.NewAuthService(log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User: services.NewUserService(db, log, services.UserServiceDeps{
			Users:         r.User,
			Articles:      r.Article,
			ArticleTags:   r.ArticleTag,
			Comments:      r.Comment,
			Likes:         r.Like,
			Subscriptions: r.Subscription,
			Notices:       r.Notice,
		}, cfg.DeletePolicy),
		Tag:          services.NewTagService(log, r.Tag, cfg.PageSizes),
		Subscription: services.NewSubscriptionService(log, r.User, r.Tag, r.Subscription),
		Article: services.NewArticleService(db, log, services.ArticleServiceDeps{
			Users:       r.User,
			Articles:    r.Article,
			Tags:        r.Tag,
			ArticleTags: r.ArticleTag,
			Comments:    r.Comment,
			Likes:       r.Like,
			Notices:     r.Notice,
			Feed:        r.Feed,
			Fanout:      fanout,
			Locker:      locker,
		}),
		Engagement: services.NewEngagementService(db, log, r.User, r.Article, r.Comment, r.Like),
		Notice:     services.NewNoticeService(log, r.Notice, cfg.PageSizes),
		Feed:       services.NewFeedService(log, r.User, r.Feed, cfg.PageSizes),
		Fanout:     fanout,
	}
}
