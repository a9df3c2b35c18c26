package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type ArticleRepo interface {
	Create(dbc dbctx.Context, articles []*types.Article) ([]*types.Article, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Article, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Article, error)
	ListIDsByAuthor(dbc dbctx.Context, authorID uuid.UUID) ([]uuid.UUID, error)
	Touch(dbc dbctx.Context, id uuid.UUID) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	// DetachAuthor nulls the author of every article written by authorID.
	DetachAuthor(dbc dbctx.Context, authorID uuid.UUID) error
}

type articleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewArticleRepo(db *gorm.DB, baseLog *logger.Logger) ArticleRepo {
	return &articleRepo{db: db, log: baseLog.With("repo", "ArticleRepo")}
}

func (r *articleRepo) Create(dbc dbctx.Context, articles []*types.Article) ([]*types.Article, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(articles) == 0 {
		return []*types.Article{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

func (r *articleRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Article, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Article
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *articleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Article, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *articleRepo) ListIDsByAuthor(dbc dbctx.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Article{}).
		Where("author_id = ?", authorID).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *articleRepo) Touch(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Article{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}

func (r *articleRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Delete(&types.Article{})
	return res.RowsAffected, res.Error
}

func (r *articleRepo) DetachAuthor(dbc dbctx.Context, authorID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Article{}).
		Where("author_id = ?", authorID).
		Update("author_id", nil).Error
}
