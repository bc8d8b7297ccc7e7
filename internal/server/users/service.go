package users

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/studyhub/studyhub/internal/common"
	"github.com/studyhub/studyhub/internal/logging"
	"github.com/studyhub/studyhub/internal/server/auth"
	"github.com/studyhub/studyhub/internal/server/invites"
	"github.com/studyhub/studyhub/internal/server/models"
)

// Options carry the tunable registration parameters.
type Options struct {
	DefaultInviteQuota int
	RegisterPoints     int
}

// Service implements account registration, authentication and the
// profile/points operations on top of a Repository.
type Service struct {
	repo   Repository
	logger logging.Logger
	opts   Options
}

func NewService(repo Repository, logger logging.Logger, opts Options) *Service {
	return &Service{repo: repo, logger: logger, opts: opts}
}

// RegisterParams are the fields accepted at sign-up.
type RegisterParams struct {
	Username   string
	Email      string
	Password   string
	InviteCode string
}

// ProfilePatch holds the updatable profile fields. Nil means keep.
type ProfilePatch struct {
	Nickname *string
	Avatar   *string
	Bio      *string
	Phone    *string
}

func validateRegister(p RegisterParams) error {
	if n := len(p.Username); n < 3 || n > 50 {
		return fmt.Errorf("%w: username must be 3-50 characters", common.ErrorValidation)
	}
	if len(p.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", common.ErrorValidation)
	}
	var hasLetter, hasDigit bool
	for _, r := range p.Password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain a letter and a digit", common.ErrorValidation)
	}
	if len(p.InviteCode) < invites.MinCodeLength {
		return fmt.Errorf("%w: invite code is too short", common.ErrorValidation)
	}
	return nil
}

// freshInviteCode generates a code not yet assigned to any user.
func (s *Service) freshInviteCode(ctx context.Context) (string, error) {
	for range 10 {
		code, err := invites.GenerateCode()
		if err != nil {
			return "", err
		}
		_, err = s.repo.GetByInviteCode(ctx, code)
		if errors.Is(err, common.ErrorNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: could not generate a unique invite code", common.ErrorInternal)
}

// Register creates an account gated on a valid invite code, awards the
// sign-up points and decrements the inviter's quota.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	if err := validateRegister(p); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByUsername(ctx, p.Username); err == nil {
		return nil, common.ErrorUsernameTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, p.Email); err == nil {
		return nil, common.ErrorEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	inviter, err := s.lookupInviter(ctx, p.InviteCode)
	if err != nil {
		return nil, err
	}
	if ok, msg, _ := invites.Validate(inviter); !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrorInviteCodeInvalid, msg)
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, err
	}

	code, err := s.freshInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:          p.Username,
		Email:             p.Email,
		HashedPassword:    hash,
		Nickname:          p.Username,
		Role:              models.RoleUser,
		Level:             1,
		Points:            s.opts.RegisterPoints,
		TotalPointsEarned: s.opts.RegisterPoints,
		InviteCode:        code,
		InvitedByID:       &inviter.ID,
		InviteQuota:       s.opts.DefaultInviteQuota,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	inviter.InviteQuota--
	inviter.UpdatedAt = now
	if err := s.repo.Update(ctx, inviter); err != nil {
		s.logger.Error(ctx, "failed to decrement inviter quota",
			"inviter_id", inviter.ID, "error", err)
	}

	s.logger.Info(ctx, "user registered",
		"user_id", user.ID, "username", user.Username, "inviter_id", inviter.ID)
	return user, nil
}

func (s *Service) lookupInviter(ctx context.Context, code string) (*models.User, error) {
	inviter, err := s.repo.GetByInviteCode(ctx, code)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: %s", common.ErrorInviteCodeInvalid, invites.MsgNotFound)
	}
	if err != nil {
		return nil, err
	}
	return inviter, nil
}

// Authenticate checks credentials against a username or email and
// records the login time. Bad credentials map to ErrorUnauthorized.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	user, err := s.repo.GetByUsernameOrEmail(ctx, identifier)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}
	if !auth.CheckPassword(user.HashedPassword, password) {
		return nil, common.ErrorUnauthorized
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Warn(ctx, "failed to record login time", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// ValidateInviteCode reports whether code can currently be redeemed.
// The returned inviter is nil unless the code resolves to a user.
func (s *Service) ValidateInviteCode(ctx context.Context, code string) (bool, string, *models.User, error) {
	if len(code) < invites.MinCodeLength {
		return false, invites.MsgNotFound, nil, nil
	}
	inviter, err := s.repo.GetByInviteCode(ctx, code)
	if errors.Is(err, common.ErrorNotFound) {
		return false, invites.MsgNotFound, nil, nil
	}
	if err != nil {
		return false, "", nil, err
	}
	ok, msg, inviter := invites.Validate(inviter)
	return ok, msg, inviter, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetProfile returns the user and how many accounts they invited.
func (s *Service) GetProfile(ctx context.Context, id int64) (*models.User, int, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	n, err := s.repo.CountInvitedBy(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return user, n, nil
}

// Update applies a partial profile patch.
func (s *Service) Update(ctx context.Context, id int64, patch ProfilePatch) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Nickname != nil {
		user.Nickname = *patch.Nickname
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AddPoints credits points to both the spendable balance and the
// lifetime total.
func (s *Service) AddPoints(ctx context.Context, id int64, points int) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Points += points
	user.TotalPointsEarned += points
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeductPoints spends points from the balance. The lifetime total is
// unchanged. Overdraft is a validation error.
func (s *Service) DeductPoints(ctx context.Context, id int64, points int) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Points < points {
		return nil, fmt.Errorf("%w: insufficient points", common.ErrorValidation)
	}
	user.Points -= points
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) InvitedUsers(ctx context.Context, id int64) ([]*models.User, error) {
	return s.repo.ListInvitedBy(ctx, id)
}

const defaultLeaderboardLimit = 10

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	return s.repo.Leaderboard(ctx, limit)
}

// EnsureBootstrapAdmin seeds an initial admin account when the user
// table is empty, so that the first real registration has an invite
// code to redeem. Returns the admin (existing or created).
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, inviteCode, password string) (*models.User, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, nil
	}

	if inviteCode == "" {
		inviteCode, err = invites.GenerateCode()
		if err != nil {
			return nil, err
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	admin := &models.User{
		Username:       "admin",
		Email:          "admin@localhost",
		HashedPassword: hash,
		Nickname:       "admin",
		Role:           models.RoleAdmin,
		Level:          1,
		InviteCode:     inviteCode,
		InviteQuota:    s.opts.DefaultInviteQuota,
		IsActive:       true,
		IsVerified:     true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	admin, err = s.repo.Create(ctx, admin)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "bootstrap admin created", "invite_code", admin.InviteCode)
	return admin, nil
}
