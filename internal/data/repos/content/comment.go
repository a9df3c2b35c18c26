package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type CommentRepo interface {
	Create(dbc dbctx.Context, comment *types.Comment) (*types.Comment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Comment, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
	DeleteByArticleIDs(dbc dbctx.Context, articleIDs []uuid.UUID) error
	DeleteByAuthor(dbc dbctx.Context, authorID uuid.UUID) error
	DetachAuthor(dbc dbctx.Context, authorID uuid.UUID) error
}

type commentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommentRepo(db *gorm.DB, baseLog *logger.Logger) CommentRepo {
	return &commentRepo{db: db, log: baseLog.With("repo", "CommentRepo")}
}

func (r *commentRepo) Create(dbc dbctx.Context, comment *types.Comment) (*types.Comment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *commentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Comment, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Comment
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *commentRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.Comment{})
	return res.RowsAffected, res.Error
}

func (r *commentRepo) DeleteByArticleIDs(dbc dbctx.Context, articleIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(articleIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).Where("article_id IN ?", articleIDs).Delete(&types.Comment{}).Error
}

func (r *commentRepo) DeleteByAuthor(dbc dbctx.Context, authorID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("author_id = ?", authorID).Delete(&types.Comment{}).Error
}

func (r *commentRepo) DetachAuthor(dbc dbctx.Context, authorID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Comment{}).
		Where("author_id = ?", authorID).
		Update("author_id", nil).Error
}
