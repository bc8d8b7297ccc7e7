package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studyhub/studyhub/internal/common"
	"github.com/studyhub/studyhub/internal/server/models"
)

// PostgresRepository persists users in PostgreSQL via database/sql (pgx
// stdlib driver). Schema is managed by the embedded goose migrations.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, phone, hashed_password, nickname, avatar, bio,
	role, level, experience, points, total_points_earned,
	invite_code, invited_by_id, invite_quota,
	is_active, is_verified, created_at, updated_at, last_login_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.HashedPassword,
		&u.Nickname, &u.Avatar, &u.Bio,
		&u.Role, &u.Level, &u.Experience, &u.Points, &u.TotalPointsEarned,
		&u.InviteCode, &u.InvitedByID, &u.InviteQuota,
		&u.IsActive, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, phone, hashed_password, nickname, avatar, bio,
			role, level, experience, points, total_points_earned,
			invite_code, invited_by_id, invite_quota,
			is_active, is_verified, created_at, updated_at, last_login_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Phone, user.HashedPassword,
		user.Nickname, user.Avatar, user.Bio,
		user.Role, user.Level, user.Experience, user.Points, user.TotalPointsEarned,
		user.InviteCode, user.InvitedByID, user.InviteQuota,
		user.IsActive, user.IsVerified, user.CreatedAt, user.UpdatedAt, user.LastLoginAt,
	).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *models.User) error {

	query :=
		`UPDATE users SET
			username = $2, email = $3, phone = $4, hashed_password = $5,
			nickname = $6, avatar = $7, bio = $8,
			role = $9, level = $10, experience = $11, points = $12, total_points_earned = $13,
			invite_code = $14, invited_by_id = $15, invite_quota = $16,
			is_active = $17, is_verified = $18, updated_at = $19, last_login_at = $20
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.Phone, user.HashedPassword,
		user.Nickname, user.Avatar, user.Bio,
		user.Role, user.Level, user.Experience, user.Points, user.TotalPointsEarned,
		user.InviteCode, user.InvitedByID, user.InviteQuota,
		user.IsActive, user.IsVerified, user.UpdatedAt, user.LastLoginAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) getBy(ctx context.Context, where string, args ...any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, `username = $1`, username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r *PostgresRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	return r.getBy(ctx, `username = $1 OR email = $1`, identifier)
}

func (r *PostgresRepository) GetByInviteCode(ctx context.Context, code string) (*models.User, error) {
	return r.getBy(ctx, `invite_code = $1`, code)
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) ListInvitedBy(ctx context.Context, userID int64) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE invited_by_id = $1 ORDER BY id`
	return r.queryMany(ctx, query, userID)
}

func (r *PostgresRepository) CountInvitedBy(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE invited_by_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		 WHERE is_active ORDER BY points DESC, id LIMIT $1`
	return r.queryMany(ctx, query, limit)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

var _ Repository = (*PostgresRepository)(nil)
