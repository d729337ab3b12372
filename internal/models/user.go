package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name          string     `json:"name"`
	Email         string     `gorm:"uniqueIndex" json:"email"`
	EmailVerified *time.Time `json:"emailVerified"`
	Image         string     `json:"image"`
	Username      string     `gorm:"uniqueIndex" json:"username"`
	Bio           string     `json:"bio"`

	Role Role `gorm:"type:text;default:'USER'" json:"role"`

	// Linked GitHub account. The token authorizes repo access for the
	// pull-request flow and is never serialized.
	GithubUsername string `json:"githubUsername"`
	GithubToken    string `json:"-"`

	Password string `json:"-"`
}

func (User) TableName() string {
	return "User"
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
