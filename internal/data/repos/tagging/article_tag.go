package tagging

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type ArticleTagRepo interface {
	CreateIfAbsent(dbc dbctx.Context, articleID uuid.UUID, tagIDs []uuid.UUID) (int64, error)
	ListTagIDsByArticle(dbc dbctx.Context, articleID uuid.UUID) ([]uuid.UUID, error)
	ListTagsByArticle(dbc dbctx.Context, articleID uuid.UUID) ([]*types.Tag, error)
	// DeleteByArticleExcept drops every tag binding of the article not listed in keep.
	DeleteByArticleExcept(dbc dbctx.Context, articleID uuid.UUID, keep []uuid.UUID) error
	DeleteByArticleIDs(dbc dbctx.Context, articleIDs []uuid.UUID) error
}

type articleTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleTagRepo(db *gorm.DB, baseLog *logger.Logger) ArticleTagRepo {
	return &articleTagRepo{db: db, log: baseLog.With("repo", "ArticleTagRepo")}
}

func (r *articleTagRepo) CreateIfAbsent(dbc dbctx.Context, articleID uuid.UUID, tagIDs []uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(tagIDs) == 0 {
		return 0, nil
	}
	rows := make([]*types.ArticleTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, &types.ArticleTag{ArticleID: articleID, TagID: tagID})
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *articleTagRepo) ListTagIDsByArticle(dbc dbctx.Context, articleID uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Model(&types.ArticleTag{}).
		Where("article_id = ?", articleID).
		Order("tag_id ASC").
		Pluck("tag_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *articleTagRepo) ListTagsByArticle(dbc dbctx.Context, articleID uuid.UUID) ([]*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Tag{}).
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("article_tags.article_id = ?", articleID).
		Order("tags.name ASC, tags.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *articleTagRepo) DeleteByArticleExcept(dbc dbctx.Context, articleID uuid.UUID, keep []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).Where("article_id = ?", articleID)
	if len(keep) > 0 {
		q = q.Where("tag_id NOT IN ?", keep)
	}
	return q.Delete(&types.ArticleTag{}).Error
}

func (r *articleTagRepo) DeleteByArticleIDs(dbc dbctx.Context, articleIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(articleIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("article_id IN ?", articleIDs).
		Delete(&types.ArticleTag{}).Error
}
