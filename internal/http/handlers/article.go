package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/http/response"
	"github.com/yungbote/guideance-backend/internal/platform/ctxutil"
	"github.com/yungbote/guideance-backend/internal/services"
)

type ArticleHandler struct {
	articles   services.ArticleService
	engagement services.EngagementService
}

func NewArticleHandler(articles services.ArticleService, engagement services.EngagementService) *ArticleHandler {
	return &ArticleHandler{articles: articles, engagement: engagement}
}

type fanoutView struct {
	Recipients int      `json:"recipients"`
	Created    int      `json:"created"`
	Skipped    int      `json:"skipped"`
	FailedTags []string `json:"failed_tags,omitempty"`
}

func viewOf(res domainagg.FanoutResult) fanoutView {
	v := fanoutView{Recipients: res.Recipients, Created: res.Created, Skipped: res.Skipped}
	for _, f := range res.FailedTags {
		v.FailedTags = append(v.FailedTags, f.TagID.String())
	}
	return v
}

// POST /api/articles
func (ah *ArticleHandler) Publish(c *gin.Context) {
	var req struct {
		Title    string   `json:"title"`
		Contents string   `json:"contents"`
		Tags     []string `json:"tags"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	detail, res, err := ah.articles.Publish(ctx, ctxutil.ActingUserID(ctx), req.Title, req.Contents, req.Tags)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"article": detail, "fanout": viewOf(res)})
}

// GET /api/articles/:id
func (ah *ArticleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := ah.articles.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"article": detail})
}

// PUT /api/articles/:id/tags
func (ah *ArticleHandler) Retag(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Tags []string `json:"tags"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	detail, res, err := ah.articles.Retag(ctx, ctxutil.ActingUserID(ctx), id, req.Tags)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"article": detail, "fanout": viewOf(res)})
}

// DELETE /api/articles/:id
func (ah *ArticleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := ah.articles.Delete(ctx, ctxutil.ActingUserID(ctx), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/articles/:id/like
func (ah *ArticleHandler) Like(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	n, err := ah.engagement.Like(ctx, ctxutil.ActingUserID(ctx), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"likes_count": n})
}

// DELETE /api/articles/:id/like
func (ah *ArticleHandler) Unlike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	n, err := ah.engagement.Unlike(ctx, ctxutil.ActingUserID(ctx), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"likes_count": n})
}

// POST /api/articles/:id/comments
func (ah *ArticleHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Contents string `json:"contents"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	comment, err := ah.engagement.AddComment(ctx, ctxutil.ActingUserID(ctx), id, req.Contents)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"comment": comment})
}

// DELETE /api/comments/:id
func (ah *ArticleHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := ah.engagement.DeleteComment(ctx, ctxutil.ActingUserID(ctx), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
