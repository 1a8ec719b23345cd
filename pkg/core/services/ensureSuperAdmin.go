package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/auth"
	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// EnsureSuperAdmin creates the configured super admin unless an account with
// that email already exists. It reports whether an account was created.
func EnsureSuperAdmin(ctx context.Context, database db.UserStore, logger *zap.Logger, creds Credentials) (bool, error) {
	if err := validateInput(creds); err != nil {
		return false, err
	}

	existing, err := database.GetUserByEmail(ctx, creds.Email)
	switch {
	case err == nil:
		if existing.Role != model.RoleSuperAdmin {
			return false, fmt.Errorf("%w: %s exists with role %s", model.ErrConflict, creds.Email, existing.Role)
		}
		logger.Debug("Super admin already exists", zap.String("user_id", existing.ID))
		return false, nil
	case !errors.Is(err, model.ErrNotFound):
		return false, fmt.Errorf("failed to look up super admin: %w", err)
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return false, err
	}

	admin := &model.User{
		ID:            uuid.New().String(),
		Email:         strings.ToLower(creds.Email),
		PasswordHash:  hash,
		Role:          model.RoleSuperAdmin,
		EmailVerified: true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := database.InsertUser(ctx, admin); err != nil {
		return false, fmt.Errorf("failed to create super admin: %w", err)
	}

	logger.Info("Created super admin", zap.String("user_id", admin.ID))
	return true, nil
}
