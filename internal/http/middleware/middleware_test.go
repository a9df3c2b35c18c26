package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/platform/ctxutil"
	"github.com/yungbote/guideance-backend/internal/platform/logger"
	"github.com/yungbote/guideance-backend/internal/services"
)

// stubAuth accepts any token that parses as a user id.
type stubAuth struct{}

func (stubAuth) Login(context.Context, string) (string, *types.User, error) { return "", nil, nil }
func (stubAuth) GetAccessTTL() time.Duration { return time.Hour }
func (stubAuth) SetContextFromToken(ctx context.Context, tok string) (context.Context, error) {
	id, err := uuid.Parse(tok)
	if err != nil {
		return ctx, services.ErrInvalidToken
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tok, UserID: id}), nil
}

type stubNotices struct {
	services.NoticeService
	byID map[uuid.UUID]*types.Notice
	err  error
}

func (s stubNotices) Get(_ context.Context, id uuid.UUID) (*types.Notice, error) {
	if s.err != nil {
		return nil, s.err
	}
	if n, ok := s.byID[id]; ok {
		return n, nil
	}
	return nil, domainagg.NotFound("notice.get", "notice")
}

func newGuardedRouter(notices services.NoticeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	am := NewAuthMiddleware(logger.Nop(), stubAuth{})
	g := r.Group("/api", am.RequireAuth())
	g.POST("/notices/:id/read", NoticeOwnership(notices), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	r := newGuardedRouter(stubNotices{byID: map[uuid.UUID]*types.Notice{}})
	path := "/api/notices/" + uuid.NewString() + "/read"

	if rec := do(r, http.MethodPost, path, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
	if rec := do(r, http.MethodPost, path, "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
	if rec := do(r, http.MethodPost, path, uuid.Nil.String()); rec.Code != http.StatusForbidden {
		t.Fatalf("nil actor: want=%d got=%d", http.StatusForbidden, rec.Code)
	}
}

func TestNoticeOwnership(t *testing.T) {
	owner, stranger := uuid.New(), uuid.New()
	notice := &types.Notice{ID: uuid.New(), RecipientID: owner}
	r := newGuardedRouter(stubNotices{byID: map[uuid.UUID]*types.Notice{notice.ID: notice}})
	path := "/api/notices/" + notice.ID.String() + "/read"

	if rec := do(r, http.MethodPost, path, stranger.String()); rec.Code != http.StatusForbidden {
		t.Fatalf("stranger: want=%d got=%d", http.StatusForbidden, rec.Code)
	}
	if rec := do(r, http.MethodPost, path, owner.String()); rec.Code != http.StatusNoContent {
		t.Fatalf("owner: want=%d got=%d", http.StatusNoContent, rec.Code)
	}
	unknown := "/api/notices/" + uuid.NewString() + "/read"
	if rec := do(r, http.MethodPost, unknown, owner.String()); rec.Code != http.StatusNoContent {
		t.Fatalf("unknown falls through: want=%d got=%d", http.StatusNoContent, rec.Code)
	}
	if rec := do(r, http.MethodPost, "/api/notices/nope/read", owner.String()); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}

func TestNoticeOwnershipStoreFailure(t *testing.T) {
	r := newGuardedRouter(stubNotices{err: domainagg.NewError(domainagg.CodeInternal, "notice.get", "lookup failed", errors.New("connection reset"))})
	path := "/api/notices/" + uuid.NewString() + "/read"

	rec := do(r, http.MethodPost, path, uuid.NewString())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("store failure: want=%d got=%d", http.StatusInternalServerError, rec.Code)
	}

	r = newGuardedRouter(stubNotices{err: errors.New("connection reset")})
	if rec := do(r, http.MethodPost, path, uuid.NewString()); rec.Code != http.StatusInternalServerError {
		t.Fatalf("raw failure: want=%d got=%d", http.StatusInternalServerError, rec.Code)
	}
}
