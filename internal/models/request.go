package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestStatus string

const (
	RequestPending          RequestStatus = "PENDING"
	RequestApproved         RequestStatus = "APPROVED"
	RequestRejected         RequestStatus = "REJECTED"
	RequestChangesRequested RequestStatus = "CHANGES_REQUESTED"
)

// ValidResponseStatus reports whether s is a status an admin may respond
// with. PENDING is the initial state only.
func ValidResponseStatus(s RequestStatus) bool {
	switch s {
	case RequestApproved, RequestRejected, RequestChangesRequested:
		return true
	}
	return false
}

// RuleRequest is a user's ask for a new cursor rule, moderated by admins.
// AdminNotes is internal-only: it is excluded from JSON so requester-facing
// reads can serialize the model directly; admin endpoints expose it through
// an explicit view.
type RuleRequest struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string `json:"title"`
	TechStack   string `gorm:"index" json:"techStack"`
	Description string `json:"description"`
	RequestText string `gorm:"type:text" json:"requestText"`

	UserID string `gorm:"index" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	Status        RequestStatus `gorm:"type:text;default:'PENDING';index" json:"status"`
	AdminResponse string        `gorm:"type:text" json:"adminResponse"`
	AdminNotes    string        `gorm:"type:text" json:"-"`
	ReviewedBy    *string       `json:"reviewedBy"`
	ReviewedAt    *time.Time    `json:"reviewedAt"`
}

func (RuleRequest) TableName() string {
	return "RuleRequest"
}

func (r *RuleRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
