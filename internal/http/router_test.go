package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	repotest "github.com/yungbote/guideance-backend/internal/data/repos/testutil"
	types "github.com/yungbote/guideance-backend/internal/domain"
	"github.com/yungbote/guideance-backend/internal/domain/paging"
	httpH "github.com/yungbote/guideance-backend/internal/http/handlers"
	httpMW "github.com/yungbote/guideance-backend/internal/http/middleware"
	"github.com/yungbote/guideance-backend/internal/observability"
	"github.com/yungbote/guideance-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := repotest.DB(t)
	log := repotest.Logger(t)
	sizes := paging.DefaultSizes()

	users := repos.NewUserRepo(db, log)
	tags := repos.NewTagRepo(db, log)
	subs := repos.NewSubscriptionRepo(db, log)
	articleTags := repos.NewArticleTagRepo(db, log)
	articles := repos.NewArticleRepo(db, log)
	comments := repos.NewCommentRepo(db, log)
	likes := repos.NewLikeRepo(db, log)
	feed := repos.NewFeedRepo(db, log)
	notices := repos.NewNoticeRepo(db, log)

	fanout := aggregates.NewNoticeFanoutAggregate(aggregates.NoticeFanoutAggregateDeps{
		Base:          aggregates.BaseDeps{DB: db, Log: log, Runner: aggregates.NewGormTxRunner(db)},
		Articles:      articles,
		Tags:          tags,
		Subscriptions: subs,
		Notices:       notices,
	})

	userSvc := services.NewUserService(db, log, services.UserServiceDeps{
		Users: users, Articles: articles, ArticleTags: articleTags, Comments: comments,
		Likes: likes, Subscriptions: subs, Notices: notices,
	}, types.DeletePolicyDetach)
	authSvc := services.NewAuthService(log, users, "test-secret", time.Hour)
	tagSvc := services.NewTagService(log, tags, sizes)
	subSvc := services.NewSubscriptionService(log, users, tags, subs)
	articleSvc := services.NewArticleService(db, log, services.ArticleServiceDeps{
		Users: users, Articles: articles, Tags: tags, ArticleTags: articleTags, Comments: comments,
		Likes: likes, Notices: notices, Feed: feed, Fanout: fanout,
	})
	engagementSvc := services.NewEngagementService(db, log, users, articles, comments, likes)
	noticeSvc := services.NewNoticeService(log, notices, sizes)
	feedSvc := services.NewFeedService(log, users, feed, sizes)

	return NewRouter(RouterConfig{
		Log:            log,
		Metrics:        observability.NewMetrics(prometheus.NewRegistry()),
		AuthMiddleware: httpMW.NewAuthMiddleware(log, authSvc),
		Notices:        noticeSvc,
		HealthHandler:  httpH.NewHealthHandler(db),
		AuthHandler:    httpH.NewAuthHandler(authSvc, userSvc),
		UserHandler:    httpH.NewUserHandler(userSvc, subSvc, feedSvc),
		TagHandler:     httpH.NewTagHandler(tagSvc, subSvc),
		ArticleHandler: httpH.NewArticleHandler(articleSvc, engagementSvc),
		NoticeHandler:  httpH.NewNoticeHandler(noticeSvc),
	})
}

type client struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func (c client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.r.ServeHTTP(rec, req)
	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(rec.Body.Bytes()), []byte("{")) {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return rec.Code, out
}

func signupAndLogin(t *testing.T, r *gin.Engine, name, email string) (client, string) {
	t.Helper()
	anon := client{t: t, r: r}
	status, body := anon.do(stdhttp.MethodPost, "/api/signup", map[string]string{"name": name, "email": email})
	if status != stdhttp.StatusCreated {
		t.Fatalf("signup: want=%d got=%d %v", stdhttp.StatusCreated, status, body)
	}
	id := body["user"].(map[string]any)["id"].(string)
	status, body = anon.do(stdhttp.MethodPost, "/api/login", map[string]string{"email": email})
	if status != stdhttp.StatusOK {
		t.Fatalf("login: want=%d got=%d %v", stdhttp.StatusOK, status, body)
	}
	return client{t: t, r: r, token: body["access_token"].(string)}, id
}

func TestPublishFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	reader, readerID := signupAndLogin(t, r, "Reader", "reader@example.com")
	author, _ := signupAndLogin(t, r, "Author", "author@example.com")

	status, body := reader.do(stdhttp.MethodPost, "/api/tags", map[string]string{"name": "go"})
	if status != stdhttp.StatusCreated {
		t.Fatalf("create tag: want=%d got=%d %v", stdhttp.StatusCreated, status, body)
	}
	tagID := body["tag"].(map[string]any)["id"].(string)
	if status, _ := reader.do(stdhttp.MethodPost, "/api/tags", map[string]string{"name": "go"}); status != stdhttp.StatusConflict {
		t.Fatalf("duplicate tag: want=%d got=%d", stdhttp.StatusConflict, status)
	}
	if status, _ := reader.do(stdhttp.MethodPost, "/api/tags/"+tagID+"/subscribe", nil); status != stdhttp.StatusOK {
		t.Fatalf("subscribe: want=%d got=%d", stdhttp.StatusOK, status)
	}

	status, body = author.do(stdhttp.MethodPost, "/api/articles", map[string]any{
		"title": "Channels", "contents": "body", "tags": []string{"go"},
	})
	if status != stdhttp.StatusCreated {
		t.Fatalf("publish: want=%d got=%d %v", stdhttp.StatusCreated, status, body)
	}
	if created := body["fanout"].(map[string]any)["created"].(float64); created != 1 {
		t.Fatalf("fanout created: want=1 got=%v", created)
	}
	articleID := body["article"].(map[string]any)["article_id"].(string)

	status, body = reader.do(stdhttp.MethodGet, "/api/me/notices", nil)
	if status != stdhttp.StatusOK || body["total_elements"].(float64) != 1 {
		t.Fatalf("notices: got=%d %v", status, body)
	}
	noticeID := body["content"].([]any)[0].(map[string]any)["id"].(string)
	_, body = reader.do(stdhttp.MethodGet, "/api/me/notices?size=1", nil)
	if body["size"].(float64) != 10 {
		t.Fatalf("notices size: want=10 got=%v", body["size"])
	}

	if status, _ := author.do(stdhttp.MethodPost, "/api/notices/"+noticeID+"/read", nil); status != stdhttp.StatusForbidden {
		t.Fatalf("mark read by stranger: want=%d got=%d", stdhttp.StatusForbidden, status)
	}
	if status, _ := reader.do(stdhttp.MethodPost, "/api/notices/"+noticeID+"/read", nil); status != stdhttp.StatusNoContent {
		t.Fatalf("mark read: want=%d got=%d", stdhttp.StatusNoContent, status)
	}
	_, body = reader.do(stdhttp.MethodGet, "/api/me/notices/unread-count", nil)
	if body["unread"].(float64) != 0 {
		t.Fatalf("unread: want=0 got=%v", body["unread"])
	}

	for i := 0; i < 2; i++ {
		status, body = reader.do(stdhttp.MethodPut, "/api/articles/"+articleID+"/like", nil)
		if status != stdhttp.StatusOK || body["likes_count"].(float64) != 1 {
			t.Fatalf("like #%d: got=%d %v", i+1, status, body)
		}
	}
	status, body = reader.do(stdhttp.MethodGet, "/api/users/"+readerID+"/articles/likes", nil)
	if status != stdhttp.StatusOK || body["total_elements"].(float64) != 1 {
		t.Fatalf("liked feed: got=%d %v", status, body)
	}
	if status, _ := reader.do(stdhttp.MethodPut, "/api/articles/"+articleID+"/tags", map[string]any{"tags": []string{"x"}}); status != stdhttp.StatusForbidden {
		t.Fatalf("retag by reader: want=%d got=%d", stdhttp.StatusForbidden, status)
	}
}

func TestHTTPErrors(t *testing.T) {
	r := newTestRouter(t)
	anon := client{t: t, r: r}
	if status, _ := anon.do(stdhttp.MethodGet, "/api/me/notices", nil); status != stdhttp.StatusUnauthorized {
		t.Fatalf("no token: want=%d got=%d", stdhttp.StatusUnauthorized, status)
	}
	if status, _ := anon.do(stdhttp.MethodPost, "/api/login", map[string]string{"email": "ghost@example.com"}); status != stdhttp.StatusNotFound {
		t.Fatalf("login unknown: want=%d got=%d", stdhttp.StatusNotFound, status)
	}

	me, _ := signupAndLogin(t, r, "Ann", "ann@example.com")
	if status, _ := me.do(stdhttp.MethodGet, "/api/users/not-a-uuid", nil); status != stdhttp.StatusBadRequest {
		t.Fatalf("bad id: want=%d got=%d", stdhttp.StatusBadRequest, status)
	}
	if status, _ := me.do(stdhttp.MethodGet, "/api/me/notices?page=-1", nil); status != stdhttp.StatusBadRequest {
		t.Fatalf("bad page: want=%d got=%d", stdhttp.StatusBadRequest, status)
	}
	if status, body := me.do(stdhttp.MethodPost, "/api/notices/00000000-0000-0000-0000-000000000001/read", nil); status != stdhttp.StatusNotFound {
		t.Fatalf("unknown notice: want=%d got=%d %v", stdhttp.StatusNotFound, status, body)
	}
	if status, _ := me.do(stdhttp.MethodGet, "/healthcheck", nil); status != stdhttp.StatusOK {
		t.Fatalf("health: want=%d got=%d", stdhttp.StatusOK, status)
	}
	if status, _ := me.do(stdhttp.MethodGet, "/metrics", nil); status != stdhttp.StatusOK {
		t.Fatalf("metrics: want=%d got=%d", stdhttp.StatusOK, status)
	}
}
