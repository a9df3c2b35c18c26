package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/guideance-backend/internal/http/response"
	"github.com/yungbote/guideance-backend/internal/platform/ctxutil"
	"github.com/yungbote/guideance-backend/internal/services"
)

// NoticeHandler serves the acting user's inbox. Routes taking a notice id
// sit behind middleware.NoticeOwnership.
type NoticeHandler struct {
	notices services.NoticeService
}

func NewNoticeHandler(notices services.NoticeService) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// GET /api/me/notices
func (nh *NoticeHandler) List(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	out, err := nh.notices.List(ctx, ctxutil.ActingUserID(ctx), page)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/me/notices/unread-count
func (nh *NoticeHandler) UnreadCount(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := nh.notices.UnreadCount(ctx, ctxutil.ActingUserID(ctx))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"unread": n})
}

// POST /api/me/notices/read-all
func (nh *NoticeHandler) MarkAllRead(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := nh.notices.MarkAllRead(ctx, ctxutil.ActingUserID(ctx))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"marked": n})
}

// POST /api/notices/:id/read
func (nh *NoticeHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := nh.notices.MarkRead(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/notices/:id
func (nh *NoticeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := nh.notices.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
