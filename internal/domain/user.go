package domain

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User is a local shadow of an identity owned by the agency core system.
// Profile fields are overwritten from core on every session adoption;
// Password is only set for locally seeded accounts.
type User struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name           string    `gorm:"column:name" json:"name"`
	FirstName      *string   `gorm:"column:first_name" json:"first_name"`
	LastName       *string   `gorm:"column:last_name" json:"last_name"`
	Email          string    `gorm:"column:email;uniqueIndex" json:"email"`
	Password       *string   `gorm:"column:password" json:"-"`
	Role           UserRole  `gorm:"column:user_type;default:user" json:"user_type"`
	Position       *string   `gorm:"column:position" json:"position"`
	DivisionID     *int64    `gorm:"column:division_id" json:"division_id"`
	ExternalUserID *int64    `gorm:"column:external_user_id;uniqueIndex" json:"external_user_id"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// FullName is first+last when present, the display name otherwise.
func (u User) FullName() string {
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if full := strings.Join(parts, " "); full != "" {
		return full
	}
	return u.Name
}

// Division is a lookup table mirrored from the core system's org units.
type Division struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:division" json:"division"`
	Abbr      *string   `gorm:"column:abbr" json:"abbr"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"-"`
}

func (Division) TableName() string { return "divisions" }
