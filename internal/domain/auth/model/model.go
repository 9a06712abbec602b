package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "SuperAdmin"
	RoleUser       = "User"
)

type User struct {
	ID                     uuid.UUID `gorm:"primaryKey"`
	UserName               string    `gorm:"size:256;uniqueIndex;not null"`
	Email                  string    `gorm:"size:256;uniqueIndex;not null"`
	PasswordHash           string    `gorm:"not null"`
	SecurityStamp          string
	RefreshToken           *string
	RefreshTokenExpiryTime time.Time
	Roles                  []Role `gorm:"many2many:user_roles;"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

type Role struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string    `gorm:"size:256;uniqueIndex;not null"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Expiration   time.Time
	UserID       uuid.UUID
}
