package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like marks a (user, rule) pair as liked. Toggling removes the row.
type Like struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID string `gorm:"uniqueIndex:idx_user_rule_like" json:"userId"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	RuleID string     `gorm:"uniqueIndex:idx_user_rule_like" json:"ruleId"`
	Rule   CursorRule `gorm:"foreignKey:RuleID" json:"-"`
}

func (Like) TableName() string {
	return "Like"
}

func (l *Like) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return
}

// RuleView records one distinct viewing identity per rule. Exactly one of
// UserID/SessionID is set. The composite unique indexes enforce one row per
// identity at the storage layer (NULLs never collide), so a duplicate-key
// failure is the already-viewed branch rather than a race to tolerate.
type RuleView struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	RuleID    string    `gorm:"index;type:text;not null;uniqueIndex:idx_rule_view_user;uniqueIndex:idx_rule_view_session" json:"ruleId"`
	UserID    *string   `gorm:"type:text;uniqueIndex:idx_rule_view_user" json:"userId"`
	SessionID *string   `gorm:"type:text;uniqueIndex:idx_rule_view_session" json:"sessionId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Rule CursorRule `gorm:"foreignKey:RuleID" json:"-"`
}

func (RuleView) TableName() string {
	return "rule_views"
}

func (v *RuleView) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return
}

// RuleCopy records one distinct copying identity per rule, same shape as
// RuleView.
type RuleCopy struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	RuleID    string    `gorm:"index;type:text;not null;uniqueIndex:idx_rule_copy_user;uniqueIndex:idx_rule_copy_session" json:"ruleId"`
	UserID    *string   `gorm:"type:text;uniqueIndex:idx_rule_copy_user" json:"userId"`
	SessionID *string   `gorm:"type:text;uniqueIndex:idx_rule_copy_session" json:"sessionId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Rule CursorRule `gorm:"foreignKey:RuleID" json:"-"`
}

func (RuleCopy) TableName() string {
	return "rule_copies"
}

func (c *RuleCopy) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}
