package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a staff account. IsVisible excludes system/service accounts
// from listings and reports. Deletion is refused while the user has created
// orders; that guard lives in the user service, not only in the database.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"` // bcrypt hash, never serialized
	UID          string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"uid"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsSuperAdmin bool      `gorm:"not null;default:false" json:"is_super_admin"`
	IsVisible    bool      `gorm:"not null;default:true" json:"is_visible"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
