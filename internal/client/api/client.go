package api

import "context"

// Client is the typed contract for the StudyHub backend. It performs shape
// mapping only; callers decide error recovery.
type Client interface {
	// Register creates a new account. It does not establish a session.
	Register(ctx context.Context, data RegisterData) (*User, error)

	// Login exchanges credentials for a bearer token. The credentials are
	// sent form-encoded and no bearer header is attached.
	Login(ctx context.Context, username, password string) (*Token, error)

	// ValidateInviteCode checks an invite code before registration.
	ValidateInviteCode(ctx context.Context, code string) (*InviteCodeValidation, error)

	// GetCurrentUser fetches the authenticated user's profile.
	GetCurrentUser(ctx context.Context) (*UserProfile, error)

	// UpdateCurrentUser patches the authenticated user's profile.
	UpdateCurrentUser(ctx context.Context, patch ProfileUpdate) (*User, error)

	// GetMyPoints returns the authenticated user's points snapshot.
	GetMyPoints(ctx context.Context) (*PointsSummary, error)

	// GetMyInviteCode returns the user's own invite code and quota.
	GetMyInviteCode(ctx context.Context) (*InviteCodeInfo, error)

	// GetMyInvitedUsers lists users who registered with the caller's code.
	GetMyInvitedUsers(ctx context.Context) ([]UserPublic, error)

	// GetLeaderboard returns the top users by points. limit <= 0 means the
	// server default (10).
	GetLeaderboard(ctx context.Context, limit int) ([]UserPublic, error)

	// GetUserProfile returns another user's public profile.
	GetUserProfile(ctx context.Context, id int64) (*UserPublic, error)

	// Close releases transport resources.
	Close() error
}
