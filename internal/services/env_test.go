package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/guideance-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	repotest "github.com/yungbote/guideance-backend/internal/data/repos/testutil"
	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/domain/paging"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
)

type testEnv struct {
	db    *gorm.DB
	hooks *aggtest.HooksRecorder

	users       repos.UserRepo
	tags        repos.TagRepo
	subs        repos.SubscriptionRepo
	articleTags repos.ArticleTagRepo
	articles    repos.ArticleRepo
	comments    repos.CommentRepo
	likes       repos.LikeRepo
	feed        repos.FeedRepo
	notices     repos.NoticeRepo

	Users         UserService
	Tags          TagService
	Subscriptions SubscriptionService
	Articles      ArticleService
	Engagement    EngagementService
	Notices       NoticeService
	Feed          FeedService
}

func newTestEnv(t *testing.T, policy types.DeletePolicy) *testEnv {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)
	env := &testEnv{
		db:          db,
		hooks:       &aggtest.HooksRecorder{},
		users:       repos.NewUserRepo(db, log),
		tags:        repos.NewTagRepo(db, log),
		subs:        repos.NewSubscriptionRepo(db, log),
		articleTags: repos.NewArticleTagRepo(db, log),
		articles:    repos.NewArticleRepo(db, log),
		comments:    repos.NewCommentRepo(db, log),
		likes:       repos.NewLikeRepo(db, log),
		feed:        repos.NewFeedRepo(db, log),
		notices:     repos.NewNoticeRepo(db, log),
	}
	sizes := paging.DefaultSizes()

	fanout := aggregates.NewNoticeFanoutAggregate(aggregates.NoticeFanoutAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     db,
			Log:    log,
			Runner: aggregates.NewGormTxRunner(db),
			Hooks:  env.hooks,
		},
		Articles:      env.articles,
		Tags:          env.tags,
		Subscriptions: env.subs,
		Notices:       env.notices,
	})

	env.Users = NewUserService(db, log, UserServiceDeps{
		Users:         env.users,
		Articles:      env.articles,
		ArticleTags:   env.articleTags,
		Comments:      env.comments,
		Likes:         env.likes,
		Subscriptions: env.subs,
		Notices:       env.notices,
	}, policy)
	env.Tags = NewTagService(log, env.tags, sizes)
	env.Subscriptions = NewSubscriptionService(log, env.users, env.tags, env.subs)
	env.Articles = NewArticleService(db, log, ArticleServiceDeps{
		Users:       env.users,
		Articles:    env.articles,
		Tags:        env.tags,
		ArticleTags: env.articleTags,
		Comments:    env.comments,
		Likes:       env.likes,
		Notices:     env.notices,
		Feed:        env.feed,
		Fanout:      fanout,
	})
	env.Engagement = NewEngagementService(db, log, env.users, env.articles, env.comments, env.likes)
	env.Notices = NewNoticeService(log, env.notices, sizes)
	env.Feed = NewFeedService(log, env.users, env.feed, sizes)
	return env
}

func (e *testEnv) signup(t *testing.T, ctx context.Context, name, email string) *types.User {
	t.Helper()
	u, err := e.Users.Signup(ctx, name, email)
	if err != nil {
		t.Fatalf("Signup(%s): %v", email, err)
	}
	return u
}

func dbcOf(ctx context.Context) dbctx.Context { return dbctx.Context{Ctx: ctx} }
