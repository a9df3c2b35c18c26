package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Article author is non-owning: it becomes NULL when the author is detached.
type Article struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string     `gorm:"not null;column:title" json:"title"`
	Contents string     `gorm:"type:text;not null;column:contents" json:"contents"`
	AuthorID *uuid.UUID `gorm:"type:uuid;index:idx_articles_author;column:author_id" json:"author_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:idx_articles_created" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Article) TableName() string { return "articles" }

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsAuthoredBy reports whether userID is the (still attached) author.
func (a *Article) IsAuthoredBy(userID uuid.UUID) bool {
	return a != nil && a.AuthorID != nil && userID != uuid.Nil && *a.AuthorID == userID
}

type Comment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID uuid.UUID  `gorm:"type:uuid;not null;index:idx_comments_article;column:article_id" json:"article_id"`
	AuthorID  *uuid.UUID `gorm:"type:uuid;index:idx_comments_author;column:author_id" json:"author_id,omitempty"`
	Contents  string     `gorm:"type:text;not null;column:contents" json:"contents"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Like is unique per (article, user).
type Like struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_article_user,priority:1;column:article_id" json:"article_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_likes_article_user,priority:2;index:idx_likes_user;column:user_id" json:"user_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Like) TableName() string { return "likes" }

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
