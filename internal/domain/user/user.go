package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"not null;column:name" json:"name"`
	Email string    `gorm:"uniqueIndex:idx_users_email;not null;column:email" json:"email"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DeletePolicy decides what happens to authored content when a user is deleted.
type DeletePolicy string

const (
	// DeletePolicyCascade removes the user's articles (with their children), comments and likes.
	DeletePolicyCascade DeletePolicy = "cascade"
	// DeletePolicyDetach keeps articles and comments with a NULL author.
	DeletePolicyDetach DeletePolicy = "detach"
)

func ParseDeletePolicy(raw string) (DeletePolicy, bool) {
	switch DeletePolicy(raw) {
	case DeletePolicyCascade:
		return DeletePolicyCascade, true
	case DeletePolicyDetach:
		return DeletePolicyDetach, true
	default:
		return "", false
	}
}
