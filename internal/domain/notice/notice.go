package notice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubjectKind tags what a notice points at; SubjectID is opaque to the inbox.
type SubjectKind string

const (
	SubjectArticle SubjectKind = "article"
)

// Notice is unique per (recipient, subject kind, subject id).
type Notice struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_notices_recipient_subject,priority:1;index:idx_notices_recipient_created,priority:1;column:recipient_id" json:"recipient_id"`
	SubjectKind SubjectKind `gorm:"not null;uniqueIndex:idx_notices_recipient_subject,priority:2;column:subject_kind" json:"subject_kind"`
	SubjectID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_notices_recipient_subject,priority:3;index:idx_notices_subject;column:subject_id" json:"subject_id"`
	Read        bool        `gorm:"not null;default:false;column:is_read" json:"read"`

	// Metadata holds kind-specific details, e.g. the tag names that matched.
	Metadata datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:idx_notices_recipient_created,priority:2" json:"created_at"`
}

func (Notice) TableName() string { return "notices" }

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
