package models

import "time"

// Role controls access to the moderation surface.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserModel represents a shop customer or staff member.
type UserModel struct {
	Base
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"           gorm:"uniqueIndex;not null"`
	Password      string     `json:"-"               gorm:"not null"`
	Role          Role       `json:"role"            gorm:"type:varchar(16);default:user"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// FullName joins first and last name; empty when either part is missing.
func (u *UserModel) FullName() string {
	if u.FirstName == "" || u.LastName == "" {
		return ""
	}
	return u.FirstName + " " + u.LastName
}
