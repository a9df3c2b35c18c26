package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/guideance-backend/internal/http/response"
	"github.com/yungbote/guideance-backend/internal/platform/apierr"
)

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondServiceError(c, apierr.New(http.StatusBadRequest, "invalid_id", err))
		return uuid.Nil, false
	}
	return id, true
}

// pageQuery reads the zero-indexed ?page=. Page sizes are fixed per listing.
func pageQuery(c *gin.Context) (page int, ok bool) {
	var err error
	if v := c.Query("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 0 {
			response.RespondServiceError(c, apierr.New(http.StatusBadRequest, "invalid_page", err))
			return 0, false
		}
	}
	return page, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondServiceError(c, apierr.New(http.StatusBadRequest, "invalid_request", err))
		return false
	}
	return true
}
