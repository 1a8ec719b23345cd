package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/auth"
	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// LoginResult carries a signed session token
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Login checks credentials and issues a session token. Volunteers must have
// verified their email first.
func Login(ctx context.Context, database db.UserStore, tokens *auth.TokenService, logger *zap.Logger, creds Credentials) (*LoginResult, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", model.ErrValidation)
	}

	user, err := database.GetUserByEmail(ctx, creds.Email)
	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", model.ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, creds.Password); err != nil {
		logger.Debug("Password mismatch", zap.String("user_id", user.ID))
		return nil, err
	}
	if user.Role == model.RoleVolunteer && !user.EmailVerified {
		return nil, fmt.Errorf("%w: please verify your email before logging in", model.ErrNotAuthorized)
	}

	token, expiresAt, err := tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetUser returns an account by id
func GetUser(ctx context.Context, database db.UserStore, userID string) (*model.User, error) {
	user, err := database.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
