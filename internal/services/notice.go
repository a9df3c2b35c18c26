package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/domain/paging"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
)

// NoticeService is the inbox. It does not check who owns a notice; the
// request layer does.
type NoticeService interface {
	List(ctx context.Context, userID uuid.UUID, page int) (paging.Page[*types.Notice], error)
	Get(ctx context.Context, noticeID uuid.UUID) (*types.Notice, error)
	MarkRead(ctx context.Context, noticeID uuid.UUID) error
	Delete(ctx context.Context, noticeID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type noticeService struct {
	log     *logger.Logger
	notices repos.NoticeRepo
	size    int
}

func NewNoticeService(log *logger.Logger, notices repos.NoticeRepo, sizes paging.Sizes) NoticeService {
	return &noticeService{
		log:     log.With("service", "NoticeService"),
		notices: notices,
		size:    sizes.WithDefaults().Notices,
	}
}

func (ns *noticeService) List(ctx context.Context, userID uuid.UUID, page int) (paging.Page[*types.Notice], error) {
	const op = "notice.list"
	req := paging.NewRequest(page, ns.size)
	dbc := dbctx.Context{Ctx: ctx}
	total, err := ns.notices.CountByRecipient(dbc, userID)
	if err != nil {
		return paging.Page[*types.Notice]{}, aggregates.MapError(op, err)
	}
	rows, err := ns.notices.ListByRecipient(dbc, userID, req.Size, req.Offset())
	if err != nil {
		return paging.Page[*types.Notice]{}, aggregates.MapError(op, err)
	}
	return paging.New(rows, req, total), nil
}

func (ns *noticeService) Get(ctx context.Context, noticeID uuid.UUID) (*types.Notice, error) {
	const op = "notice.get"
	n, err := ns.notices.GetByID(dbctx.Context{Ctx: ctx}, noticeID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if n == nil {
		return nil, domainagg.NotFound(op, "notice")
	}
	return n, nil
}

func (ns *noticeService) MarkRead(ctx context.Context, noticeID uuid.UUID) error {
	const op = "notice.mark_read"
	n, err := ns.Get(ctx, noticeID)
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	if err := ns.notices.MarkRead(dbctx.Context{Ctx: ctx}, noticeID); err != nil {
		return aggregates.MapError(op, err)
	}
	return nil
}

func (ns *noticeService) Delete(ctx context.Context, noticeID uuid.UUID) error {
	const op = "notice.delete"
	deleted, err := ns.notices.DeleteByID(dbctx.Context{Ctx: ctx}, noticeID)
	if err != nil {
		return aggregates.MapError(op, err)
	}
	if deleted == 0 {
		return domainagg.NotFound(op, "notice")
	}
	return nil
}

func (ns *noticeService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := ns.notices.CountUnreadByRecipient(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return 0, aggregates.MapError("notice.unread_count", err)
	}
	return n, nil
}

func (ns *noticeService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := ns.notices.MarkAllRead(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return 0, aggregates.MapError("notice.mark_all_read", err)
	}
	return n, nil
}
