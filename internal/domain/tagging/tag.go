package tagging

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag names are unique and matched case-sensitively.
type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null;uniqueIndex:idx_tags_name;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type ArticleTag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_article_tags_article_tag,priority:1;column:article_id" json:"article_id"`
	TagID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_article_tags_article_tag,priority:2;index:idx_article_tags_tag;column:tag_id" json:"tag_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ArticleTag) TableName() string { return "article_tags" }

func (at *ArticleTag) BeforeCreate(tx *gorm.DB) error {
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	return nil
}

type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_user_tag,priority:1;column:user_id" json:"user_id"`
	TagID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_user_tag,priority:2;index:idx_subscriptions_tag;column:tag_id" json:"tag_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
