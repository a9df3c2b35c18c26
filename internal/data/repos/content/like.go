package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type LikeRepo interface {
	// CreateIfAbsent is conditional on the (article, user) unique index; a lost race is a no-op.
	CreateIfAbsent(dbc dbctx.Context, articleID, userID uuid.UUID) (bool, error)
	Delete(dbc dbctx.Context, articleID, userID uuid.UUID) (int64, error)
	CountByArticle(dbc dbctx.Context, articleID uuid.UUID) (int64, error)
	DeleteByArticleIDs(dbc dbctx.Context, articleIDs []uuid.UUID) error
	DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error
}

type likeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	return &likeRepo{db: db, log: baseLog.With("repo", "LikeRepo")}
}

func (r *likeRepo) CreateIfAbsent(dbc dbctx.Context, articleID, userID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&types.Like{ArticleID: articleID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepo) Delete(dbc dbctx.Context, articleID, userID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Delete(&types.Like{})
	return res.RowsAffected, res.Error
}

func (r *likeRepo) CountByArticle(dbc dbctx.Context, articleID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Like{}).
		Where("article_id = ?", articleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *likeRepo) DeleteByArticleIDs(dbc dbctx.Context, articleIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(articleIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("article_id IN ?", articleIDs).Delete(&types.Like{}).Error
}

func (r *likeRepo) DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Delete(&types.Like{}).Error
}
