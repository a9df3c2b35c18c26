package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/domain/paging"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type FeedService interface {
	UserArticles(ctx context.Context, userID uuid.UUID, page int) (paging.Page[*types.ArticleSummary], error)
	UserLikedArticles(ctx context.Context, userID uuid.UUID, page int) (paging.Page[*types.ArticleSummary], error)
	UserComments(ctx context.Context, userID uuid.UUID, page int) (paging.Page[*types.CommentSummary], error)
}

type feedService struct {
	log   *logger.Logger
	users repos.UserRepo
	feed  repos.FeedRepo
	sizes paging.Sizes
}

func NewFeedService(log *logger.Logger, users repos.UserRepo, feed repos.FeedRepo, sizes paging.Sizes) FeedService {
	return &feedService{
		log:   log.With("service", "FeedService"),
		users: users,
		feed:  feed,
		sizes: sizes.WithDefaults(),
	}
}

// loadPage runs the page query and its count concurrently.
func loadPage[T any](
	ctx context.Context,
	req paging.Request,
	list func(dbc dbctx.Context, limit, offset int) ([]T, error),
	count func(dbc dbctx.Context) (int64, error),
) (paging.Page[T], error) {
	var rows []T
	var total int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = list(dbctx.Context{Ctx: gctx}, req.Size, req.Offset())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(dbctx.Context{Ctx: gctx})
		return err
	})
	if err := g.Wait(); err != nil {
		return paging.Page[T]{}, err
	}
	return paging.New(rows, req, total), nil
}

func (fs *feedService) requireUser(ctx context.Context, op string, userID uuid.UUID) error {
	u, err := fs.users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return aggregates.MapError(op, err)
	}
	if u == nil {
		return domainagg.NotFound(op, "user")
	}
	return nil
}

func (fs *feedService) UserArticles(ctx context.Context, userID uuid.UUID, page int) (paging.Page[*types.ArticleSummary], error) {
	const op = "feed.user_articles"
	if err := fs.requireUser(ctx, op, userID); err != nil {
		return paging.Page[*types.ArticleSummary]{}, err
	}
	req := paging.NewRequest(page, fs.sizes.Articles)
	out, err := loadPage(ctx, req,
		func(dbc dbctx.Context, limit, offset int) ([]*types.ArticleSummary, error) {
			return fs.feed.ListArticleSummariesByAuthor(dbc, userID, limit, offset)
		},
		func(dbc dbctx.Context) (int64, error) {
			return fs.feed.CountArticlesByAuthor(dbc, userID)
		},
	)
	if err != nil {
		return out, aggregates.MapError(op, err)
	}
	return out, nil
}

func (fs *feedService) UserLikedArticles(ctx context.Context, userID uuid.UUID, page int) (paging.Page[*types.ArticleSummary], error) {
	const op = "feed.user_liked_articles"
	if err := fs.requireUser(ctx, op, userID); err != nil {
		return paging.Page[*types.ArticleSummary]{}, err
	}
	req := paging.NewRequest(page, fs.sizes.Articles)
	out, err := loadPage(ctx, req,
		func(dbc dbctx.Context, limit, offset int) ([]*types.ArticleSummary, error) {
			return fs.feed.ListLikedArticleSummaries(dbc, userID, limit, offset)
		},
		func(dbc dbctx.Context) (int64, error) {
			return fs.feed.CountLikedArticles(dbc, userID)
		},
	)
	if err != nil {
		return out, aggregates.MapError(op, err)
	}
	return out, nil
}

func (fs *feedService) UserComments(ctx context.Context, userID uuid.UUID, page int) (paging.Page[*types.CommentSummary], error) {
	const op = "feed.user_comments"
	if err := fs.requireUser(ctx, op, userID); err != nil {
		return paging.Page[*types.CommentSummary]{}, err
	}
	req := paging.NewRequest(page, fs.sizes.Comments)
	out, err := loadPage(ctx, req,
		func(dbc dbctx.Context, limit, offset int) ([]*types.CommentSummary, error) {
			return fs.feed.ListCommentSummariesByAuthor(dbc, userID, limit, offset)
		},
		func(dbc dbctx.Context) (int64, error) {
			return fs.feed.CountCommentsByAuthor(dbc, userID)
		},
	)
	if err != nil {
		return out, aggregates.MapError(op, err)
	}
	return out, nil
}
