package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	repotest "github.com/yungbote/guideance-backend/internal/data/repos/testutil"
	types "github.com/yungbote/guideance-backend/internal/domain"
	domainagg "github.com/yungbote/guideance-backend/internal/domain/aggregates"
)

func TestNoticeMarkRead(t *testing.T) {
	env := newTestEnv(t, types.DeletePolicyDetach)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, env.db, "ann@example.com")
	a := repotest.SeedArticle(t, ctx, env.db, nil, "A", 0)
	n := repotest.SeedNotice(t, ctx, env.db, u.ID, a.ID, 0)

	if err := env.Notices.MarkRead(ctx, uuid.New()); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("MarkRead unknown: want=%s got=%v", domainagg.CodeNotFound, err)
	}
	for i := 0; i < 2; i++ {
		if err := env.Notices.MarkRead(ctx, n.ID); err != nil {
			t.Fatalf("MarkRead #%d: %v", i+1, err)
		}
	}
	got, err := env.Notices.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Read {
		t.Fatalf("Read: want=true got=false")
	}
	unread, err := env.Notices.UnreadCount(ctx, u.ID)
	if err != nil {
		t.Fatalf("UnreadCount: %v", err)
	}
	if unread != 0 {
		t.Fatalf("UnreadCount: want=0 got=%d", unread)
	}
}

func TestNoticeListAndDelete(t *testing.T) {
	env := newTestEnv(t, types.DeletePolicyDetach)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, env.db, "ann@example.com")
	var newest *types.Notice
	for i := 0; i < 12; i++ {
		a := repotest.SeedArticle(t, ctx, env.db, nil, "A", time.Duration(i)*time.Minute)
		newest = repotest.SeedNotice(t, ctx, env.db, u.ID, a.ID, time.Duration(i)*time.Minute)
	}

	first, err := env.Notices.List(ctx, u.ID, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first.Content) != 10 || first.TotalElements != 12 || first.TotalPages != 2 {
		t.Fatalf("List page 0: want=10/12/2 got=%d/%d/%d", len(first.Content), first.TotalElements, first.TotalPages)
	}
	if first.Content[0].ID != newest.ID {
		t.Fatalf("List order: want newest first")
	}

	marked, err := env.Notices.MarkAllRead(ctx, u.ID)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if marked != 12 {
		t.Fatalf("MarkAllRead: want=12 got=%d", marked)
	}

	if err := env.Notices.Delete(ctx, newest.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := env.Notices.Delete(ctx, newest.ID); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("Delete again: want=%s got=%v", domainagg.CodeNotFound, err)
	}
	second, err := env.Notices.List(ctx, u.ID, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(second.Content) != 1 || second.TotalElements != 11 {
		t.Fatalf("List page 1: want=1/11 got=%d/%d", len(second.Content), second.TotalElements)
	}
}
