package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/guideance-backend/internal/http/response"
	"github.com/yungbote/guideance-backend/internal/platform/ctxutil"
	"github.com/yungbote/guideance-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
	subs        services.SubscriptionService
	feed        services.FeedService
}

func NewUserHandler(userService services.UserService, subs services.SubscriptionService, feed services.FeedService) *UserHandler {
	return &UserHandler{userService: userService, subs: subs, feed: feed}
}

// GET /api/users/:id
func (uh *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := uh.userService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// PUT /api/users/me
func (uh *UserHandler) UpdateMe(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	u, err := uh.userService.UpdateName(ctx, ctxutil.ActingUserID(ctx), req.Name)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// DELETE /api/users/me
func (uh *UserHandler) DeleteMe(c *gin.Context) {
	ctx := c.Request.Context()
	if err := uh.userService.Delete(ctx, ctxutil.ActingUserID(ctx)); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/users/:id/tags
func (uh *UserHandler) ListTags(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tags, err := uh.subs.ListSubscriptions(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tags": tags})
}

// GET /api/users/:id/articles/writes
func (uh *UserHandler) ListWrites(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	out, err := uh.feed.UserArticles(c.Request.Context(), id, page)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/users/:id/articles/likes
func (uh *UserHandler) ListLikes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	out, err := uh.feed.UserLikedArticles(c.Request.Context(), id, page)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/users/:id/comments
func (uh *UserHandler) ListComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	out, err := uh.feed.UserComments(c.Request.Context(), id, page)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
