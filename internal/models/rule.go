package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CursorRule is the shared content entity: a snippet of AI-editor
// configuration published to the public listing and the CLI registry.
type CursorRule struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string         `json:"title"`
	TechStack   string         `gorm:"index" json:"techStack"`
	Description string         `json:"description"`
	Content     string         `gorm:"type:text" json:"content"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	IsPublic    bool           `gorm:"default:true;index" json:"isPublic"`

	// Denormalized caches over rule_views/rule_copies. Overwritten with the
	// live row count on every tracked event rather than trusted blindly.
	ViewCount int `gorm:"default:0" json:"viewCount"`
	CopyCount int `gorm:"default:0" json:"copyCount"`

	UserID string `gorm:"index" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Virtual fields filled from the event tables on detail reads
	LikeCount int64 `gorm:"-" json:"likeCount"`
	HasLiked  bool  `gorm:"-" json:"hasLiked"`
}

func (CursorRule) TableName() string {
	return "CursorRule"
}

func (r *CursorRule) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
