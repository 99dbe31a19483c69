package models

import (
	"time"
)

// User roles
const (
	RoleStudent = "student"
	RoleVendor  = "vendor"
	RoleStaff   = "staff"
)

// User represents a registered account
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email         string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"size:128;not null" json:"-"`
	Role          string    `gorm:"size:10;default:student" json:"role"` // student, vendor, staff
	StudentID     *string   `gorm:"size:20" json:"student_id,omitempty"`
	PhoneNumber   *string   `gorm:"size:15" json:"phone_number,omitempty"`
	Bio           *string   `gorm:"type:text" json:"bio,omitempty"`
	AvatarID      string    `gorm:"size:255" json:"avatar_id,omitempty"` // media store public ID
	EmailVerified bool      `gorm:"default:false" json:"email_verified"`
	IsSuperuser   bool      `gorm:"default:false" json:"is_superuser"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user has moderation privileges
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff || u.IsSuperuser
}
