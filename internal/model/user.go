package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the role a registered user acts as
type Role string

const (
	// RoleCollege posts jobs and reviews applications
	RoleCollege Role = "college"
	// RoleStudent browses jobs of their college and applies to them
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	return r == RoleCollege || r == RoleStudent
}

// User is gorm model for a registered account
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Role        Role      `gorm:"type:text;not null;index" json:"role"`
	CollegeName string    `gorm:"type:text;index" json:"college_name"`
	Password    string    `gorm:"type:text" json:"-"`
	CreatedAt   time.Time `gorm:"<-:create" json:"created_at"`
}

// BeforeCreate assigns a fresh id and normalizes the email.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	if u.Role == RoleCollege {
		u.CollegeName = u.Name
	}
	return nil
}

// NormalizeEmail lower-cases and trims an email address so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Actor converts the stored user into the identity used by the job board.
// It returns nil for an unknown role.
func (u User) Actor() Actor {
	switch u.Role {
	case RoleCollege:
		return College{ID: u.ID, Name: u.Name, Email: u.Email}
	case RoleStudent:
		return Student{ID: u.ID, Name: u.Name, Email: u.Email, CollegeName: u.CollegeName}
	default:
		return nil
	}
}
