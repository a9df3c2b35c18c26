package aggregates_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/guideance-backend/internal/data/aggregates"
	aggtest "github.com/yungbote/guideance-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/guideance-backend/internal/data/repos"
	repotest "github.com/yungbote/guideance-backend/internal/data/repos/testutil"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
)

type fanoutFixture struct {
	tx      *gorm.DB
	hooks   *aggtest.HooksRecorder
	notices repos.NoticeRepo
	agg     domainagg.NoticeFanoutAggregate
}

func newFanoutFixture(t *testing.T, wrapSubs func(repos.SubscriptionRepo) repos.SubscriptionRepo) fanoutFixture {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)

	subs := repos.NewSubscriptionRepo(tx, log)
	if wrapSubs != nil {
		subs = wrapSubs(subs)
	}
	hooks := &aggtest.HooksRecorder{}
	notices := repos.NewNoticeRepo(tx, log)
	agg := aggregates.NewNoticeFanoutAggregate(aggregates.NoticeFanoutAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:     tx,
			Log:    log,
			Runner: aggregates.NewGormTxRunner(tx),
			Hooks:  hooks,
		},
		Articles:      repos.NewArticleRepo(tx, log),
		Tags:          repos.NewTagRepo(tx, log),
		Subscriptions: subs,
		Notices:       notices,
	})
	return fanoutFixture{tx: tx, hooks: hooks, notices: notices, agg: agg}
}

func (f fanoutFixture) noticeCount(t *testing.T, articleID uuid.UUID) int64 {
	t.Helper()
	n, err := f.notices.CountBySubject(dbctx.Context{Ctx: context.Background(), Tx: f.tx}, types.NoticeSubjectArticle, articleID)
	if err != nil {
		t.Fatalf("CountBySubject: %v", err)
	}
	return n
}

func (f fanoutFixture) inbox(t *testing.T, userID uuid.UUID) []*types.Notice {
	t.Helper()
	list, err := f.notices.ListByRecipient(dbctx.Context{Ctx: context.Background(), Tx: f.tx}, userID, 100, 0)
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	return list
}

func TestNoticeFanoutOneNoticePerRecipientAcrossTags(t *testing.T) {
	f := newFanoutFixture(t, nil)
	ctx := context.Background()

	author := repotest.SeedUser(t, ctx, f.tx, "author@example.com")
	reader := repotest.SeedUser(t, ctx, f.tx, "reader@example.com")
	goTag := repotest.SeedTag(t, ctx, f.tx, "go")
	dbTag := repotest.SeedTag(t, ctx, f.tx, "db")
	repotest.SeedSubscription(t, ctx, f.tx, reader.ID, goTag.ID)
	repotest.SeedSubscription(t, ctx, f.tx, reader.ID, dbTag.ID)
	article := repotest.SeedArticle(t, ctx, f.tx, &author.ID, "a", 0)

	res, err := f.agg.Fanout(ctx, domainagg.FanoutInput{ArticleID: article.ID, TagIDs: []uuid.UUID{goTag.ID, dbTag.ID}})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}
	if res.Recipients != 1 || res.Created != 1 || res.Skipped != 0 || res.Partial() {
		t.Fatalf("Fanout: unexpected result: %+v", res)
	}

	inbox := f.inbox(t, reader.ID)
	if len(inbox) != 1 || inbox[0].SubjectID != article.ID || inbox[0].Read {
		t.Fatalf("inbox: unexpected notices: %+v", inbox)
	}
	var meta struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal(inbox[0].Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "db" || meta.Tags[1] != "go" {
		t.Fatalf("metadata tags: want=[db go] got=%v", meta.Tags)
	}
	if len(f.hooks.Fanouts) != 1 || f.hooks.Fanouts[0].Created != 1 {
		t.Fatalf("hooks: unexpected fanouts: %+v", f.hooks.Fanouts)
	}
}

func TestNoticeFanoutRetagDoesNotDuplicate(t *testing.T) {
	f := newFanoutFixture(t, nil)
	ctx := context.Background()

	reader := repotest.SeedUser(t, ctx, f.tx, "reader@example.com")
	t1 := repotest.SeedTag(t, ctx, f.tx, "t1")
	t2 := repotest.SeedTag(t, ctx, f.tx, "t2")
	repotest.SeedSubscription(t, ctx, f.tx, reader.ID, t1.ID)
	repotest.SeedSubscription(t, ctx, f.tx, reader.ID, t2.ID)
	article := repotest.SeedArticle(t, ctx, f.tx, nil, "a", 0)

	if _, err := f.agg.Fanout(ctx, domainagg.FanoutInput{ArticleID: article.ID, TagIDs: []uuid.UUID{t1.ID}}); err != nil {
		t.Fatalf("Fanout first: %v", err)
	}
	res, err := f.agg.Fanout(ctx, domainagg.FanoutInput{ArticleID: article.ID, TagIDs: []uuid.UUID{t1.ID, t2.ID}})
	if err != nil {
		t.Fatalf("Fanout retag: %v", err)
	}
	if res.Created != 0 || res.Skipped != 1 {
		t.Fatalf("Fanout retag: want created=0 skipped=1 got %+v", res)
	}
	if got := f.noticeCount(t, article.ID); got != 1 {
		t.Fatalf("notice count: want=1 got=%d", got)
	}
}

func TestNoticeFanoutExcludesAuthor(t *testing.T) {
	f := newFanoutFixture(t, nil)
	ctx := context.Background()

	u1 := repotest.SeedUser(t, ctx, f.tx, "u1@example.com")
	u2 := repotest.SeedUser(t, ctx, f.tx, "u2@example.com")
	goTag := repotest.SeedTag(t, ctx, f.tx, "go")
	repotest.SeedSubscription(t, ctx, f.tx, u1.ID, goTag.ID)
	repotest.SeedSubscription(t, ctx, f.tx, u2.ID, goTag.ID)
	article := repotest.SeedArticle(t, ctx, f.tx, &u1.ID, "hello go", 0)

	res, err := f.agg.Fanout(ctx, domainagg.FanoutInput{ArticleID: article.ID, TagIDs: []uuid.UUID{goTag.ID}})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}
	if res.Recipients != 1 || res.Created != 1 {
		t.Fatalf("Fanout: want recipients=1 created=1 got %+v", res)
	}
	if got := f.inbox(t, u1.ID); len(got) != 0 {
		t.Fatalf("author inbox: want empty got %+v", got)
	}
	if got := f.inbox(t, u2.ID); len(got) != 1 {
		t.Fatalf("subscriber inbox: want=1 got=%d", len(got))
	}
}

func TestNoticeFanoutMissingArticleWritesNothing(t *testing.T) {
	f := newFanoutFixture(t, nil)
	ctx := context.Background()

	reader := repotest.SeedUser(t, ctx, f.tx, "reader@example.com")
	goTag := repotest.SeedTag(t, ctx, f.tx, "go")
	repotest.SeedSubscription(t, ctx, f.tx, reader.ID, goTag.ID)

	missing := uuid.New()
	_, err := f.agg.Fanout(ctx, domainagg.FanoutInput{ArticleID: missing, TagIDs: []uuid.UUID{goTag.ID}})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("Fanout: want code %q got %v", domainagg.CodeNotFound, err)
	}
	if got := f.noticeCount(t, missing); got != 0 {
		t.Fatalf("notice count: want=0 got=%d", got)
	}
	if len(f.hooks.Operations) != 1 || f.hooks.Operations[0].Status != string(domainagg.CodeNotFound) {
		t.Fatalf("hooks: unexpected operations: %+v", f.hooks.Operations)
	}
}

func TestNoticeFanoutToleratesFailingTag(t *testing.T) {
	var badTag uuid.UUID
	f := newFanoutFixture(t, func(inner repos.SubscriptionRepo) repos.SubscriptionRepo {
		return &failingSubscriptionRepo{SubscriptionRepo: inner, failTag: &badTag}
	})
	ctx := context.Background()

	u1 := repotest.SeedUser(t, ctx, f.tx, "u1@example.com")
	u2 := repotest.SeedUser(t, ctx, f.tx, "u2@example.com")
	good := repotest.SeedTag(t, ctx, f.tx, "good")
	bad := repotest.SeedTag(t, ctx, f.tx, "bad")
	badTag = bad.ID
	repotest.SeedSubscription(t, ctx, f.tx, u1.ID, good.ID)
	repotest.SeedSubscription(t, ctx, f.tx, u2.ID, bad.ID)
	article := repotest.SeedArticle(t, ctx, f.tx, nil, "a", 0)
	unknown := uuid.New()

	res, err := f.agg.Fanout(ctx, domainagg.FanoutInput{ArticleID: article.ID, TagIDs: []uuid.UUID{bad.ID, good.ID, unknown}})
	if err != nil {
		t.Fatalf("Fanout: %v", err)
	}
	if res.Created != 1 {
		t.Fatalf("Fanout: want created=1 got %+v", res)
	}
	if len(res.FailedTags) != 2 || res.FailedTags[0].TagID != bad.ID || res.FailedTags[1].TagID != unknown {
		t.Fatalf("FailedTags: unexpected %+v", res.FailedTags)
	}
	if !domainagg.IsCode(res.Err(), domainagg.CodePartialFanout) {
		t.Fatalf("Err: want code %q got %v", domainagg.CodePartialFanout, res.Err())
	}
	if got := f.inbox(t, u1.ID); len(got) != 1 {
		t.Fatalf("u1 inbox: want=1 got=%d", len(got))
	}
	if got := f.inbox(t, u2.ID); len(got) != 0 {
		t.Fatalf("u2 inbox: want=0 got=%d", len(got))
	}
	if len(f.hooks.Fanouts) != 1 || f.hooks.Fanouts[0].FailedTags != 2 {
		t.Fatalf("hooks: unexpected fanouts: %+v", f.hooks.Fanouts)
	}
}

func TestNoticeFanoutRunnerFailureSurfaces(t *testing.T) {
	runner := &aggtest.InjectedTxRunner{FailBegin: errors.New("connection refused")}
	agg := aggregates.NewNoticeFanoutAggregate(aggregates.NoticeFanoutAggregateDeps{
		Base:          aggregates.BaseDeps{Runner: runner},
		Articles:      repos.NewArticleRepo(nil, repotest.Logger(t)),
		Tags:          repos.NewTagRepo(nil, repotest.Logger(t)),
		Subscriptions: repos.NewSubscriptionRepo(nil, repotest.Logger(t)),
		Notices:       repos.NewNoticeRepo(nil, repotest.Logger(t)),
	})
	_, err := agg.Fanout(context.Background(), domainagg.FanoutInput{ArticleID: uuid.New()})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("Fanout: want code %q got %v", domainagg.CodeInternal, err)
	}
	if runner.BeginCalls != 1 || runner.CommitCalls != 0 {
		t.Fatalf("runner: begin=%d commit=%d", runner.BeginCalls, runner.CommitCalls)
	}
}

func TestNoticeFanoutRejectsNilArticle(t *testing.T) {
	f := newFanoutFixture(t, nil)
	_, err := f.agg.Fanout(context.Background(), domainagg.FanoutInput{})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("Fanout: want code %q got %v", domainagg.CodeValidation, err)
	}
}

type failingSubscriptionRepo struct {
	repos.SubscriptionRepo
	failTag *uuid.UUID
}

func (r *failingSubscriptionRepo) ListUserIDsByTag(dbc dbctx.Context, tagID uuid.UUID) ([]uuid.UUID, error) {
	if r.failTag != nil && tagID == *r.failTag {
		return nil, errors.New("subscriber index unavailable")
	}
	return r.SubscriptionRepo.ListUserIDsByTag(dbc, tagID)
}
