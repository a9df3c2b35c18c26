package tagging

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type TagRepo interface {
	// Create is a plain insert; a taken name surfaces as gorm.ErrDuplicatedKey.
	Create(dbc dbctx.Context, tag *types.Tag) (*types.Tag, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Tag, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Tag, error)
	GetByName(dbc dbctx.Context, name string) (*types.Tag, error)
	ExistsByName(dbc dbctx.Context, name string) (bool, error)
	SearchByNameContaining(dbc dbctx.Context, fragment string, limit, offset int) ([]*types.Tag, error)
	CountByNameContaining(dbc dbctx.Context, fragment string) (int64, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) Create(dbc dbctx.Context, tag *types.Tag) (*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

func (r *tagRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Order("name ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Tag, error) {
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

func (r *tagRepo) GetByName(dbc dbctx.Context, name string) (*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Tag
	if err := t.WithContext(dbc.Ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *tagRepo) ExistsByName(dbc dbctx.Context, name string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Tag{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tagRepo) SearchByNameContaining(dbc dbctx.Context, fragment string, limit, offset int) ([]*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if err := t.WithContext(dbc.Ctx).
		Where(containsClause(t), fragment).
		Order("name ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) CountByNameContaining(dbc dbctx.Context, fragment string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Tag{}).
		Where(containsClause(t), fragment).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// containsClause matches a case-sensitive byte substring on every driver.
func containsClause(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "strpos(name, ?) > 0"
	}
	return "instr(name, ?) > 0"
}
