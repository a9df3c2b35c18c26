package content

import (
	"time"

	"github.com/google/uuid"
)

// ArticleSummary is the feed projection of an article with its aggregate counts.
type ArticleSummary struct {
	ArticleID    uuid.UUID  `json:"article_id"`
	Title        string     `json:"title"`
	Contents     string     `json:"contents"`
	AuthorID     *uuid.UUID `json:"author_id,omitempty"`
	AuthorName   string     `json:"author_name"`
	LikesCount   int64      `json:"likes_count"`
	CommentCount int64      `json:"comment_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CommentSummary struct {
	CommentID    uuid.UUID `json:"comment_id"`
	ArticleID    uuid.UUID `json:"article_id"`
	ArticleTitle string    `json:"article_title"`
	Contents     string    `json:"contents"`
	CreatedAt    time.Time `json:"created_at"`
}
