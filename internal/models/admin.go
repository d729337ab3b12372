package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SystemSettings stores global configuration toggles
type SystemSettings struct {
	Key       string    `gorm:"primaryKey;type:text" json:"key"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// System setting keys
const (
	SettingMaintenanceMode  = "maintenance_mode"
	SettingMaintenanceETA   = "maintenance_eta"
	SettingRegistrationOpen = "registration_open"
	SettingRulesEnabled     = "rules_enabled"
)

// Admin action types recorded in the audit log
type ActionType string

const (
	ActionRespondRequest ActionType = "RESPOND_REQUEST"
	ActionPublishRule    ActionType = "PUBLISH_RULE"
	ActionUpdateSettings ActionType = "UPDATE_SETTINGS"
	ActionDeleteRule     ActionType = "DELETE_RULE"
)

// AdminAuditLog records one row per admin mutation with request context.
type AdminAuditLog struct {
	ID         string     `gorm:"primaryKey;type:text" json:"id"`
	AdminID    string     `gorm:"index" json:"adminId"`
	ActionType ActionType `gorm:"type:text" json:"actionType"`
	EntityType string     `json:"entityType"` // "request", "rule", "system"
	EntityID   string     `json:"entityId"`
	Metadata   string     `gorm:"type:text" json:"metadata"`
	IPAddress  string     `json:"ipAddress"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`

	Admin User `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
}

func (a *AdminAuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}

// DashboardMetrics is a helper struct for the admin dashboard (not persisted)
type DashboardMetrics struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalRules      int64 `json:"totalRules"`
	PublicRules     int64 `json:"publicRules"`
	TotalRequests   int64 `json:"totalRequests"`
	PendingRequests int64 `json:"pendingRequests"`
	TotalViews      int64 `json:"totalViews"`
	TotalCopies     int64 `json:"totalCopies"`
	TotalLikes      int64 `json:"totalLikes"`
}
