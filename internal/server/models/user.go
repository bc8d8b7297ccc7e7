// Package models defines the server-side domain records and their outward
// projections.
package models

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleSenior     Role = "senior"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// User is the full account row. HashedPassword never leaves the server.
type User struct {
	ID                int64
	Username          string
	Email             string
	Phone             string
	HashedPassword    string
	Nickname          string
	Avatar            string
	Bio               string
	Role              Role
	Level             int
	Experience        int
	Points            int
	TotalPointsEarned int
	InviteCode        string
	InvitedByID       *int64
	InviteQuota       int
	IsActive          bool
	IsVerified        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	LastLoginAt       *time.Time
}

// UserOut is the serialized account record returned to its owner.
type UserOut struct {
	ID                int64      `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	Nickname          string     `json:"nickname,omitempty"`
	Avatar            string     `json:"avatar,omitempty"`
	Bio               string     `json:"bio,omitempty"`
	Role              Role       `json:"role"`
	Level             int        `json:"level"`
	Experience        int        `json:"experience"`
	Points            int        `json:"points"`
	TotalPointsEarned int        `json:"total_points_earned"`
	InviteCode        string     `json:"invite_code"`
	InviteQuota       int        `json:"invite_quota"`
	IsActive          bool       `json:"is_active"`
	IsVerified        bool       `json:"is_verified"`
	CreatedAt         time.Time  `json:"created_at"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
}

// ProfileOut is UserOut plus aggregates, shown only to the account owner.
type ProfileOut struct {
	UserOut
	InvitedCount int `json:"invited_count"`
}

// PublicOut is the reduced projection safe to show to anyone.
type PublicOut struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Level     int       `json:"level"`
	Role      Role      `json:"role"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Out builds the owner-facing projection.
func (u *User) Out() UserOut {
	return UserOut{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Nickname:          u.Nickname,
		Avatar:            u.Avatar,
		Bio:               u.Bio,
		Role:              u.Role,
		Level:             u.Level,
		Experience:        u.Experience,
		Points:            u.Points,
		TotalPointsEarned: u.TotalPointsEarned,
		InviteCode:        u.InviteCode,
		InviteQuota:       u.InviteQuota,
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		CreatedAt:         u.CreatedAt,
		LastLoginAt:       u.LastLoginAt,
	}
}

// Profile builds the owner-facing projection with aggregates.
func (u *User) Profile(invitedCount int) ProfileOut {
	return ProfileOut{UserOut: u.Out(), InvitedCount: invitedCount}
}

// Public builds the projection shown to other users.
func (u *User) Public() PublicOut {
	return PublicOut{
		ID:        u.ID,
		Username:  u.Username,
		Nickname:  u.Nickname,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		Level:     u.Level,
		Role:      u.Role,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}
