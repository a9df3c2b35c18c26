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
	"github.com/yungbote/guideance-backend/internal/platform/distlock"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

// ArticleDetail is an article with its counts and current tags.
type ArticleDetail struct {
	types.ArticleSummary
	Tags []*types.Tag `json:"tags"`
}

type ArticleService interface {
	Publish(ctx context.Context, authorID uuid.UUID, title, contents string, tagNames []string) (*ArticleDetail, domainagg.FanoutResult, error)
	// Retag replaces the tag set; only the author may do so.
	Retag(ctx context.Context, actorID, articleID uuid.UUID, tagNames []string) (*ArticleDetail, domainagg.FanoutResult, error)
	Get(ctx context.Context, articleID uuid.UUID) (*ArticleDetail, error)
	Delete(ctx context.Context, actorID, articleID uuid.UUID) error
}

type ArticleServiceDeps struct {
	Users       repos.UserRepo
	Articles    repos.ArticleRepo
	Tags        repos.TagRepo
	ArticleTags repos.ArticleTagRepo
	Comments    repos.CommentRepo
	Likes       repos.LikeRepo
	Notices     repos.NoticeRepo
	Feed        repos.FeedRepo

	Fanout domainagg.NoticeFanoutAggregate
	Locker distlock.Locker
}

type articleService struct {
	db      *gorm.DB
	log     *logger.Logger
	deps    ArticleServiceDeps
	resolve tagResolver
}

func NewArticleService(db *gorm.DB, log *logger.Logger, deps ArticleServiceDeps) ArticleService {
	if deps.Locker == nil {
		deps.Locker = distlock.NoopLocker{}
	}
	serviceLog := log.With("service", "ArticleService")
	return &articleService{
		db:      db,
		log:     serviceLog,
		deps:    deps,
		resolve: tagResolver{tags: deps.Tags, log: serviceLog},
	}
}

func (as *articleService) Publish(ctx context.Context, authorID uuid.UUID, title, contents string, tagNames []string) (*ArticleDetail, domainagg.FanoutResult, error) {
	const op = "article.publish"
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domainagg.FanoutResult{}, domainagg.Validation(op, "title required")
	}

	var article *types.Article
	var tagIDs []uuid.UUID
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		author, err := as.deps.Users.GetByID(dbc, authorID)
		if err != nil {
			return err
		}
		if author == nil {
			return domainagg.NotFound(op, "user")
		}
		created, err := as.deps.Articles.Create(dbc, []*types.Article{{
			Title:    title,
			Contents: contents,
			AuthorID: &author.ID,
		}})
		if err != nil {
			return err
		}
		article = created[0]
		tagIDs, err = as.bindTags(dbc, article.ID, tagNames)
		return err
	})
	if err != nil {
		return nil, domainagg.FanoutResult{}, aggregates.MapError(op, err)
	}

	res := as.fanout(ctx, article.ID, tagIDs)
	detail, err := as.Get(ctx, article.ID)
	if err != nil {
		return nil, res, err
	}
	as.log.Info("article published",
		"article_id", article.ID,
		"author_id", authorID,
		"tags", len(tagIDs),
		"notices_created", res.Created,
	)
	return detail, res, nil
}

func (as *articleService) Retag(ctx context.Context, actorID, articleID uuid.UUID, tagNames []string) (*ArticleDetail, domainagg.FanoutResult, error) {
	const op = "article.retag"
	var tagIDs []uuid.UUID
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		article, err := as.deps.Articles.GetByID(dbc, articleID)
		if err != nil {
			return err
		}
		if article == nil {
			return domainagg.NotFound(op, "article")
		}
		if !article.IsAuthoredBy(actorID) {
			return domainagg.Forbidden(op, "only the author may retag an article")
		}
		tags, err := as.resolve.resolveAll(dbc, tagNames)
		if err != nil {
			return err
		}
		tagIDs = tagIDsOf(tags)
		if err := as.deps.ArticleTags.DeleteByArticleExcept(dbc, articleID, tagIDs); err != nil {
			return err
		}
		if _, err := as.deps.ArticleTags.CreateIfAbsent(dbc, articleID, tagIDs); err != nil {
			return err
		}
		return as.deps.Articles.Touch(dbc, articleID)
	})
	if err != nil {
		return nil, domainagg.FanoutResult{}, aggregates.MapError(op, err)
	}

	res := as.fanout(ctx, articleID, tagIDs)
	detail, err := as.Get(ctx, articleID)
	if err != nil {
		return nil, res, err
	}
	return detail, res, nil
}

func (as *articleService) bindTags(dbc dbctx.Context, articleID uuid.UUID, tagNames []string) ([]uuid.UUID, error) {
	tags, err := as.resolve.resolveAll(dbc, tagNames)
	if err != nil {
		return nil, err
	}
	ids := tagIDsOf(tags)
	if _, err := as.deps.ArticleTags.CreateIfAbsent(dbc, articleID, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// fanout runs after the article commit. A hard failure is folded into the
// result as a failure of every tag; the article write stands either way.
func (as *articleService) fanout(ctx context.Context, articleID uuid.UUID, tagIDs []uuid.UUID) domainagg.FanoutResult {
	if as.deps.Fanout == nil || len(tagIDs) == 0 {
		return domainagg.FanoutResult{ArticleID: articleID}
	}

	release, lockErr := as.deps.Locker.Lock(ctx, "fanout:article:"+articleID.String())
	if lockErr != nil {
		as.log.Warn("fanout lock unavailable, continuing unlocked", "article_id", articleID, "error", lockErr)
	} else {
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				as.log.Warn("fanout lock release failed", "article_id", articleID, "error", err)
			}
		}()
	}

	res, err := as.deps.Fanout.Fanout(ctx, domainagg.FanoutInput{ArticleID: articleID, TagIDs: tagIDs})
	if err != nil {
		as.log.Error("fanout failed", "article_id", articleID, "error", err)
		res = domainagg.FanoutResult{ArticleID: articleID}
		for _, id := range tagIDs {
			res.FailedTags = append(res.FailedTags, domainagg.TagFailure{TagID: id, Err: err})
		}
		return res
	}
	if res.Partial() {
		as.log.Warn("fanout partially failed", "article_id", articleID, "error", res.Err())
	}
	return res
}

func (as *articleService) Get(ctx context.Context, articleID uuid.UUID) (*ArticleDetail, error) {
	const op = "article.get"
	dbc := dbctx.Context{Ctx: ctx}
	summary, err := as.deps.Feed.GetArticleSummary(dbc, articleID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if summary == nil {
		return nil, domainagg.NotFound(op, "article")
	}
	tags, err := as.deps.ArticleTags.ListTagsByArticle(dbc, articleID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if tags == nil {
		tags = []*types.Tag{}
	}
	return &ArticleDetail{ArticleSummary: *summary, Tags: tags}, nil
}

func (as *articleService) Delete(ctx context.Context, actorID, articleID uuid.UUID) error {
	const op = "article.delete"
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		article, err := as.deps.Articles.GetByID(dbc, articleID)
		if err != nil {
			return err
		}
		if article == nil {
			return domainagg.NotFound(op, "article")
		}
		if !article.IsAuthoredBy(actorID) {
			return domainagg.Forbidden(op, "only the author may delete an article")
		}
		ids := []uuid.UUID{articleID}
		if err := deleteArticleGraph(dbc, as.deps.ArticleTags, as.deps.Comments, as.deps.Likes, as.deps.Notices, ids); err != nil {
			return err
		}
		_, err = as.deps.Articles.DeleteByIDs(dbc, ids)
		return err
	})
	if err != nil {
		return aggregates.MapError(op, err)
	}
	return nil
}

func tagIDsOf(tags []*types.Tag) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}
