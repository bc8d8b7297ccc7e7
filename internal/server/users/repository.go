package users

import (
	"context"

	"github.com/studyhub/studyhub/internal/server/models"
)

// Repository is the persistence contract for user accounts. Lookups that
// find nothing return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	GetByInviteCode(ctx context.Context, code string) (*models.User, error)

	ListInvitedBy(ctx context.Context, userID int64) ([]*models.User, error)
	CountInvitedBy(ctx context.Context, userID int64) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
}
