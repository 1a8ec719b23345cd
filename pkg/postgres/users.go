package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

const userColumns = `id, email, password_hash, role, email_verified, org_id, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var orgID *string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.EmailVerified, &orgID, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.OrgID = deref(orgID)
	return &u, nil
}

// InsertUser inserts a new account; emails are unique case-insensitively
func (s *store) InsertUser(ctx context.Context, user *model.User) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, role, email_verified, org_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.PasswordHash, user.Role, user.EmailVerified, nullable(user.OrgID), user.CreatedAt.UTC())
	return mapError(err, "insert user")
}

func (s *store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("get user %s", id))
	}
	return u, nil
}

func (s *store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		return nil, mapError(err, "get user by email")
	}
	return u, nil
}

// GetOrganizationAdmin returns the earliest org admin account of an organization
func (s *store) GetOrganizationAdmin(ctx context.Context, orgID string) (*model.User, error) {
	u, err := scanUser(s.q.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE org_id = $1 AND role = 'org_admin'
		ORDER BY created_at ASC
		LIMIT 1
	`, orgID))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("get admin of organization %s", orgID))
	}
	return u, nil
}

func (s *store) SetUserEmailVerified(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `UPDATE users SET email_verified = TRUE WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "verify user email")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", model.ErrNotFound, id)
	}
	return nil
}
