package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/guideance-backend/internal/http/response"
	"github.com/yungbote/guideance-backend/internal/platform/ctxutil"
	"github.com/yungbote/guideance-backend/internal/services"
)

type TagHandler struct {
	tags services.TagService
	subs services.SubscriptionService
}

func NewTagHandler(tags services.TagService, subs services.SubscriptionService) *TagHandler {
	return &TagHandler{tags: tags, subs: subs}
}

// GET /api/tags?q=
func (th *TagHandler) Search(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	out, err := th.tags.Search(c.Request.Context(), c.Query("q"), page)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/tags
func (th *TagHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	tag, err := th.tags.Create(c.Request.Context(), req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"tag": tag})
}

// POST /api/tags/:id/subscribe
func (th *TagHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	created, err := th.subs.Subscribe(ctx, ctxutil.ActingUserID(ctx), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"subscribed": true, "created": created})
}

// DELETE /api/tags/:id/subscribe
func (th *TagHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := th.subs.Unsubscribe(ctx, ctxutil.ActingUserID(ctx), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
