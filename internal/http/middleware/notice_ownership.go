package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/http/response"
	"github.com/yungbote/guideance-backend/internal/platform/apierr"
	"github.com/yungbote/guideance-backend/internal/platform/ctxutil"
	"github.com/yungbote/guideance-backend/internal/services"
)

// NoticeOwnership rejects requests on a notice the acting user did not
// receive. It must run after RequireAuth. Unknown notices fall through so
// the handler reports not_found.
func NoticeOwnership(notices services.NoticeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.RespondServiceError(c, apierr.New(http.StatusBadRequest, "invalid_id", err))
			c.Abort()
			return
		}
		n, err := notices.Get(c.Request.Context(), id)
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			c.Next()
			return
		}
		if err != nil {
			response.RespondServiceError(c, err)
			c.Abort()
			return
		}
		if n.RecipientID != ctxutil.ActingUserID(c.Request.Context()) {
			response.RespondError(c, http.StatusForbidden, "forbidden", errNotOwner)
			c.Abort()
			return
		}
		c.Next()
	}
}
