package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

// Counts come from correlated COUNT(*) sub-selects so a page never loads
// child likes/comments.
const articleSummaryColumns = `articles.id AS article_id,
	articles.title AS title,
	articles.contents AS contents,
	articles.author_id AS author_id,
	COALESCE(users.name, '') AS author_name,
	(SELECT COUNT(*) FROM likes WHERE likes.article_id = articles.id) AS likes_count,
	(SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.id) AS comment_count,
	articles.created_at AS created_at`

type FeedRepo interface {
	GetArticleSummary(dbc dbctx.Context, articleID uuid.UUID) (*types.ArticleSummary, error)

	ListArticleSummariesByAuthor(dbc dbctx.Context, authorID uuid.UUID, limit, offset int) ([]*types.ArticleSummary, error)
	CountArticlesByAuthor(dbc dbctx.Context, authorID uuid.UUID) (int64, error)

	ListLikedArticleSummaries(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*types.ArticleSummary, error)
	CountLikedArticles(dbc dbctx.Context, userID uuid.UUID) (int64, error)

	ListCommentSummariesByAuthor(dbc dbctx.Context, authorID uuid.UUID, limit, offset int) ([]*types.CommentSummary, error)
	CountCommentsByAuthor(dbc dbctx.Context, authorID uuid.UUID) (int64, error)
}

type feedRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedRepo(db *gorm.DB, baseLog *logger.Logger) FeedRepo {
	return &feedRepo{db: db, log: baseLog.With("repo", "FeedRepo")}
}

func (r *feedRepo) articleSummaries(dbc dbctx.Context) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Table("articles").
		Select(articleSummaryColumns).
		Joins("LEFT JOIN users ON users.id = articles.author_id")
}

func (r *feedRepo) GetArticleSummary(dbc dbctx.Context, articleID uuid.UUID) (*types.ArticleSummary, error) {
	var out []*types.ArticleSummary
	if err := r.articleSummaries(dbc).
		Where("articles.id = ?", articleID).
		Limit(1).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *feedRepo) ListArticleSummariesByAuthor(dbc dbctx.Context, authorID uuid.UUID, limit, offset int) ([]*types.ArticleSummary, error) {
	var out []*types.ArticleSummary
	if err := r.articleSummaries(dbc).
		Where("articles.author_id = ?", authorID).
		Order("articles.created_at DESC, articles.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *feedRepo) CountArticlesByAuthor(dbc dbctx.Context, authorID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Article{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *feedRepo) ListLikedArticleSummaries(dbc dbctx.Context, userID uuid.UUID, limit, offset int) ([]*types.ArticleSummary, error) {
	var out []*types.ArticleSummary
	if err := r.articleSummaries(dbc).
		Joins("JOIN likes AS liked ON liked.article_id = articles.id").
		Where("liked.user_id = ?", userID).
		Order("liked.created_at DESC, articles.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *feedRepo) CountLikedArticles(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Like{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *feedRepo) ListCommentSummariesByAuthor(dbc dbctx.Context, authorID uuid.UUID, limit, offset int) ([]*types.CommentSummary, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CommentSummary
	if err := t.WithContext(dbc.Ctx).
		Table("comments").
		Select(`comments.id AS comment_id,
			comments.article_id AS article_id,
			articles.title AS article_title,
			comments.contents AS contents,
			comments.created_at AS created_at`).
		Joins("JOIN articles ON articles.id = comments.article_id").
		Where("comments.author_id = ?", authorID).
		Order("comments.created_at DESC, comments.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *feedRepo) CountCommentsByAuthor(dbc dbctx.Context, authorID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Comment{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
