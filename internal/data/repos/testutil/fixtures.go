package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/guideance-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:    uuid.New(),
		Name:  "user",
		Email: email,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Tag {
	tb.Helper()
	tag := &types.Tag{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(tag).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return tag
}

func SeedSubscription(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, tagID uuid.UUID) *types.Subscription {
	tb.Helper()
	s := &types.Subscription{ID: uuid.New(), UserID: userID, TagID: tagID}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subscription: %v", err)
	}
	return s
}

// SeedArticle spaces created_at by the given offset so ordering is deterministic.
func SeedArticle(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID *uuid.UUID, title string, offset time.Duration) *types.Article {
	tb.Helper()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset)
	a := &types.Article{
		ID:        uuid.New(),
		Title:     title,
		Contents:  title + " body",
		AuthorID:  authorID,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed article: %v", err)
	}
	return a
}

func SeedArticleTag(tb testing.TB, ctx context.Context, tx *gorm.DB, articleID, tagID uuid.UUID) *types.ArticleTag {
	tb.Helper()
	at := &types.ArticleTag{ID: uuid.New(), ArticleID: articleID, TagID: tagID}
	if err := tx.WithContext(ctx).Create(at).Error; err != nil {
		tb.Fatalf("seed article tag: %v", err)
	}
	return at
}

func SeedComment(tb testing.TB, ctx context.Context, tx *gorm.DB, articleID uuid.UUID, authorID *uuid.UUID, contents string) *types.Comment {
	tb.Helper()
	c := &types.Comment{ID: uuid.New(), ArticleID: articleID, AuthorID: authorID, Contents: contents}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed comment: %v", err)
	}
	return c
}

func SeedLike(tb testing.TB, ctx context.Context, tx *gorm.DB, articleID, userID uuid.UUID, offset time.Duration) *types.Like {
	tb.Helper()
	l := &types.Like{
		ID:        uuid.New(),
		ArticleID: articleID,
		UserID:    userID,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset),
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed like: %v", err)
	}
	return l
}

func SeedNotice(tb testing.TB, ctx context.Context, tx *gorm.DB, recipientID, articleID uuid.UUID, offset time.Duration) *types.Notice {
	tb.Helper()
	meta, _ := json.Marshal(map[string]any{"tags": []string{}})
	n := &types.Notice{
		ID:          uuid.New(),
		RecipientID: recipientID,
		SubjectKind: types.NoticeSubjectArticle,
		SubjectID:   articleID,
		Metadata:    datatypes.JSON(meta),
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(offset),
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed notice: %v", err)
	}
	return n
}
