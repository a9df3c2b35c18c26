package content

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/guideance-backend/internal/data/repos/testutil"
	"github.com/yungbote/guideance-backend/internal/platform/dbctx"
)

func TestLikeRepoIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewLikeRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "liker@example.com")
	a := testutil.SeedArticle(t, ctx, tx, nil, "a", 0)

	created, err := repo.CreateIfAbsent(dbc, a.ID, u.ID)
	if err != nil || !created {
		t.Fatalf("CreateIfAbsent: want=true got=%v err=%v", created, err)
	}
	created, err = repo.CreateIfAbsent(dbc, a.ID, u.ID)
	if err != nil || created {
		t.Fatalf("CreateIfAbsent (repeat): want=false got=%v err=%v", created, err)
	}
	count, err := repo.CountByArticle(dbc, a.ID)
	if err != nil || count != 1 {
		t.Fatalf("CountByArticle: want=1 got=%d err=%v", count, err)
	}

	n, err := repo.Delete(dbc, a.ID, u.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete: want=1 got=%d err=%v", n, err)
	}
	count, err = repo.CountByArticle(dbc, a.ID)
	if err != nil || count != 0 {
		t.Fatalf("CountByArticle after delete: want=0 got=%d err=%v", count, err)
	}
}

func TestArticleRepoDetachAuthor(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	articles := NewArticleRepo(db, testutil.Logger(t))
	comments := NewCommentRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "author@example.com")
	a := testutil.SeedArticle(t, ctx, tx, &u.ID, "a", 0)
	c := testutil.SeedComment(t, ctx, tx, a.ID, &u.ID, "hi")

	ids, err := articles.ListIDsByAuthor(dbc, u.ID)
	if err != nil || len(ids) != 1 || ids[0] != a.ID {
		t.Fatalf("ListIDsByAuthor: got=%v err=%v", ids, err)
	}

	if err := articles.DetachAuthor(dbc, u.ID); err != nil {
		t.Fatalf("DetachAuthor: %v", err)
	}
	if err := comments.DetachAuthor(dbc, u.ID); err != nil {
		t.Fatalf("Comment DetachAuthor: %v", err)
	}

	got, err := articles.GetByID(dbc, a.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if got.AuthorID != nil {
		t.Fatalf("DetachAuthor: expected nil author, got %v", *got.AuthorID)
	}
	gotComment, err := comments.GetByID(dbc, c.ID)
	if err != nil || gotComment == nil || gotComment.AuthorID != nil {
		t.Fatalf("Comment DetachAuthor: got=%+v err=%v", gotComment, err)
	}

	n, err := articles.DeleteByIDs(dbc, []uuid.UUID{a.ID})
	if err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: want=1 got=%d err=%v", n, err)
	}
}

func TestFeedRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewFeedRepo(db, testutil.Logger(t))
	author := testutil.SeedUser(t, ctx, tx, "author@example.com")
	reader := testutil.SeedUser(t, ctx, tx, "reader@example.com")

	older := testutil.SeedArticle(t, ctx, tx, &author.ID, "older", time.Minute)
	newer := testutil.SeedArticle(t, ctx, tx, &author.ID, "newer", 2*time.Minute)
	testutil.SeedArticle(t, ctx, tx, &reader.ID, "other", 3*time.Minute)

	testutil.SeedLike(t, ctx, tx, older.ID, reader.ID, 10*time.Minute)
	testutil.SeedLike(t, ctx, tx, older.ID, author.ID, 11*time.Minute)
	testutil.SeedLike(t, ctx, tx, newer.ID, reader.ID, 12*time.Minute)
	testutil.SeedComment(t, ctx, tx, older.ID, &reader.ID, "nice")

	page, err := repo.ListArticleSummariesByAuthor(dbc, author.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListArticleSummariesByAuthor: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("ListArticleSummariesByAuthor: want=2 got=%d", len(page))
	}
	if page[0].ArticleID != newer.ID || page[1].ArticleID != older.ID {
		t.Fatalf("ListArticleSummariesByAuthor: expected newest first, got %+v", page)
	}
	if page[1].LikesCount != 2 || page[1].CommentCount != 1 {
		t.Fatalf("summary counts: want likes=2 comments=1 got likes=%d comments=%d", page[1].LikesCount, page[1].CommentCount)
	}
	if page[0].AuthorName != author.Name {
		t.Fatalf("AuthorName: want=%q got=%q", author.Name, page[0].AuthorName)
	}

	total, err := repo.CountArticlesByAuthor(dbc, author.ID)
	if err != nil || total != 2 {
		t.Fatalf("CountArticlesByAuthor: want=2 got=%d err=%v", total, err)
	}

	liked, err := repo.ListLikedArticleSummaries(dbc, reader.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListLikedArticleSummaries: %v", err)
	}
	if len(liked) != 2 || liked[0].ArticleID != newer.ID {
		t.Fatalf("ListLikedArticleSummaries: expected most recent like first, got %+v", liked)
	}
	likedTotal, err := repo.CountLikedArticles(dbc, reader.ID)
	if err != nil || likedTotal != 2 {
		t.Fatalf("CountLikedArticles: want=2 got=%d err=%v", likedTotal, err)
	}

	comments, err := repo.ListCommentSummariesByAuthor(dbc, reader.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListCommentSummariesByAuthor: %v", err)
	}
	if len(comments) != 1 || comments[0].ArticleTitle != "older" || comments[0].Contents != "nice" {
		t.Fatalf("ListCommentSummariesByAuthor: unexpected result: %+v", comments)
	}

	summary, err := repo.GetArticleSummary(dbc, older.ID)
	if err != nil || summary == nil || summary.LikesCount != 2 {
		t.Fatalf("GetArticleSummary: got=%+v err=%v", summary, err)
	}
	missing, err := repo.GetArticleSummary(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetArticleSummary (missing): got=%+v err=%v", missing, err)
	}
}
