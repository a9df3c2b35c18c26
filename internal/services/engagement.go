package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type EngagementService interface {
	// Like and Unlike are idempotent and return the article's like count.
	Like(ctx context.Context, userID, articleID uuid.UUID) (int64, error)
	Unlike(ctx context.Context, userID, articleID uuid.UUID) (int64, error)
	AddComment(ctx context.Context, authorID, articleID uuid.UUID, contents string) (*types.Comment, error)
	DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error
}

type engagementService struct {
	db       *gorm.DB
	log      *logger.Logger
	users    repos.UserRepo
	articles repos.ArticleRepo
	comments repos.CommentRepo
	likes    repos.LikeRepo
}

func NewEngagementService(db *gorm.DB, log *logger.Logger, users repos.UserRepo, articles repos.ArticleRepo, comments repos.CommentRepo, likes repos.LikeRepo) EngagementService {
	return &engagementService{
		db:       db,
		log:      log.With("service", "EngagementService"),
		users:    users,
		articles: articles,
		comments: comments,
		likes:    likes,
	}
}

func (es *engagementService) requireArticle(dbc dbctx.Context, op string, articleID uuid.UUID) error {
	a, err := es.articles.GetByID(dbc, articleID)
	if err != nil {
		return err
	}
	if a == nil {
		return domainagg.NotFound(op, "article")
	}
	return nil
}

func (es *engagementService) requireUser(dbc dbctx.Context, op string, userID uuid.UUID) error {
	u, err := es.users.GetByID(dbc, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domainagg.NotFound(op, "user")
	}
	return nil
}

func (es *engagementService) Like(ctx context.Context, userID, articleID uuid.UUID) (int64, error) {
	const op = "engagement.like"
	var count int64
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := es.requireUser(dbc, op, userID); err != nil {
			return err
		}
		if err := es.requireArticle(dbc, op, articleID); err != nil {
			return err
		}
		if _, err := es.likes.CreateIfAbsent(dbc, articleID, userID); err != nil {
			return err
		}
		n, err := es.likes.CountByArticle(dbc, articleID)
		count = n
		return err
	})
	if err != nil {
		return 0, aggregates.MapError(op, err)
	}
	return count, nil
}

func (es *engagementService) Unlike(ctx context.Context, userID, articleID uuid.UUID) (int64, error) {
	const op = "engagement.unlike"
	var count int64
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := es.requireArticle(dbc, op, articleID); err != nil {
			return err
		}
		if _, err := es.likes.Delete(dbc, articleID, userID); err != nil {
			return err
		}
		n, err := es.likes.CountByArticle(dbc, articleID)
		count = n
		return err
	})
	if err != nil {
		return 0, aggregates.MapError(op, err)
	}
	return count, nil
}

func (es *engagementService) AddComment(ctx context.Context, authorID, articleID uuid.UUID, contents string) (*types.Comment, error) {
	const op = "engagement.add_comment"
	if strings.TrimSpace(contents) == "" {
		return nil, domainagg.Validation(op, "comment contents required")
	}
	var out *types.Comment
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := es.requireUser(dbc, op, authorID); err != nil {
			return err
		}
		if err := es.requireArticle(dbc, op, articleID); err != nil {
			return err
		}
		c, err := es.comments.Create(dbc, &types.Comment{ArticleID: articleID, AuthorID: &authorID, Contents: contents})
		out = c
		return err
	})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}

func (es *engagementService) DeleteComment(ctx context.Context, actorID, commentID uuid.UUID) error {
	const op = "engagement.delete_comment"
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		c, err := es.comments.GetByID(dbc, commentID)
		if err != nil {
			return err
		}
		if c == nil {
			return domainagg.NotFound(op, "comment")
		}
		if c.AuthorID == nil || *c.AuthorID != actorID {
			return domainagg.Forbidden(op, "only the author may delete a comment")
		}
		_, err = es.comments.DeleteByID(dbc, commentID)
		return err
	})
	if err != nil {
		return aggregates.MapError(op, err)
	}
	return nil
}
