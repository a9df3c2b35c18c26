package tagging

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type SubscriptionRepo interface {
	// CreateIfAbsent inserts (user, tag) unless present; created is false for a no-op.
	CreateIfAbsent(dbc dbctx.Context, userID, tagID uuid.UUID) (bool, error)
	Delete(dbc dbctx.Context, userID, tagID uuid.UUID) (int64, error)
	ListTagsByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Tag, error)
	ListUserIDsByTag(dbc dbctx.Context, tagID uuid.UUID) ([]uuid.UUID, error)
	DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) CreateIfAbsent(dbc dbctx.Context, userID, tagID uuid.UUID) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	row := &types.Subscription{UserID: userID, TagID: tagID}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepo) Delete(dbc dbctx.Context, userID, tagID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND tag_id = ?", userID, tagID).
		Delete(&types.Subscription{})
	return res.RowsAffected, res.Error
}

func (r *subscriptionRepo) ListTagsByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Tag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Tag
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Tag{}).
		Joins("JOIN subscriptions ON subscriptions.tag_id = tags.id").
		Where("subscriptions.user_id = ?", userID).
		Order("tags.name ASC, tags.id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepo) ListUserIDsByTag(dbc dbctx.Context, tagID uuid.UUID) ([]uuid.UUID, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Subscription{}).
		Where("tag_id = ?", tagID).
		Order("user_id ASC").
		Pluck("user_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepo) DeleteByUser(dbc dbctx.Context, userID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Delete(&types.Subscription{}).Error
}
