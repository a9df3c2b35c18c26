package notice

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

type NoticeRepo interface {
	// CreateIfAbsent skips rows whose (recipient, subject) already has a notice
	// and returns how many were inserted.
	CreateIfAbsent(dbc dbctx.Context, notices []*types.Notice) (int64, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Notice, error)
	ListByRecipient(dbc dbctx.Context, recipientID uuid.UUID, limit, offset int) ([]*types.Notice, error)
	CountByRecipient(dbc dbctx.Context, recipientID uuid.UUID) (int64, error)
	CountUnreadByRecipient(dbc dbctx.Context, recipientID uuid.UUID) (int64, error)
	CountBySubject(dbc dbctx.Context, kind types.NoticeSubjectKind, subjectID uuid.UUID) (int64, error)
	MarkRead(dbc dbctx.Context, id uuid.UUID) error
	MarkAllRead(dbc dbctx.Context, recipientID uuid.UUID) (int64, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
	DeleteByRecipient(dbc dbctx.Context, recipientID uuid.UUID) error
	DeleteBySubjects(dbc dbctx.Context, kind types.NoticeSubjectKind, subjectIDs []uuid.UUID) error
}

type noticeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoticeRepo(db *gorm.DB, baseLog *logger.Logger) NoticeRepo {
	return &noticeRepo{db: db, log: baseLog.With("repo", "NoticeRepo")}
}

func (r *noticeRepo) CreateIfAbsent(dbc dbctx.Context, notices []*types.Notice) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(notices) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipient_id"}, {Name: "subject_kind"}, {Name: "subject_id"}},
			DoNothing: true,
		}).
		Create(&notices)
	return res.RowsAffected, res.Error
}

func (r *noticeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Notice, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Notice
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *noticeRepo) ListByRecipient(dbc dbctx.Context, recipientID uuid.UUID, limit, offset int) ([]*types.Notice, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Notice
	if err := t.WithContext(dbc.Ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *noticeRepo) CountByRecipient(dbc dbctx.Context, recipientID uuid.UUID) (int64, error) {
	return r.count(dbc, "recipient_id = ?", recipientID)
}

func (r *noticeRepo) CountUnreadByRecipient(dbc dbctx.Context, recipientID uuid.UUID) (int64, error) {
	return r.count(dbc, "recipient_id = ? AND is_read = ?", recipientID, false)
}

func (r *noticeRepo) CountBySubject(dbc dbctx.Context, kind types.NoticeSubjectKind, subjectID uuid.UUID) (int64, error) {
	return r.count(dbc, "subject_kind = ? AND subject_id = ?", kind, subjectID)
}

func (r *noticeRepo) count(dbc dbctx.Context, query string, args ...interface{}) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Notice{}).
		Where(query, args...).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *noticeRepo) MarkRead(dbc dbctx.Context, id uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Notice{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *noticeRepo) MarkAllRead(dbc dbctx.Context, recipientID uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Notice{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *noticeRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).Where("id = ?", id).Delete(&types.Notice{})
	return res.RowsAffected, res.Error
}

func (r *noticeRepo) DeleteByRecipient(dbc dbctx.Context, recipientID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(dbc.Ctx).Where("recipient_id = ?", recipientID).Delete(&types.Notice{}).Error
}

func (r *noticeRepo) DeleteBySubjects(dbc dbctx.Context, kind types.NoticeSubjectKind, subjectIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(subjectIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("subject_kind = ? AND subject_id IN ?", kind, subjectIDs).
		Delete(&types.Notice{}).Error
}
