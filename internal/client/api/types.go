package api

import "time"

// Role is the platform-wide user role.
type Role string

const (
	RoleUser       Role = "user"
	RoleSenior     Role = "senior"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// User is the account record as returned by registration and profile updates.
type User struct {
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

// UserProfile is the authenticated user's own view: the full account record
// plus aggregates.
type UserProfile struct {
	User
	InvitedCount int `json:"invited_count"`
}

// UserPublic is the reduced projection shown to other users
// (leaderboard, inviter info, public profile pages).
type UserPublic struct {
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

// DisplayName prefers the nickname and falls back to the username.
func (u UserPublic) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// Token is the credential pair returned by the login exchange.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterData is the registration payload. It is submit-only and is not
// retained after the call.
type RegisterData struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Nickname *string `json:"nickname,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// PointsSummary is the authenticated user's points/level snapshot.
type PointsSummary struct {
	Points      int `json:"points"`
	TotalEarned int `json:"total_earned"`
	Level       int `json:"level"`
	Experience  int `json:"experience"`
}

// InviteCodeInfo describes the user's own invite code and its remaining uses.
type InviteCodeInfo struct {
	Code           string       `json:"code"`
	RemainingQuota int          `json:"remaining_quota"`
	InvitedUsers   []UserPublic `json:"invited_users"`
}

// InviteCodeValidation is the transient result of checking someone else's
// invite code before registration.
type InviteCodeValidation struct {
	Valid   bool        `json:"valid"`
	Message string      `json:"message"`
	Inviter *UserPublic `json:"inviter"`
}

// response is the standard server envelope for single objects.
type response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// listResponse is the envelope for paginated collections.
type listResponse[T any] struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Data     []T    `json:"data"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}
