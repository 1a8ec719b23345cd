package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/auth"
	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
	"github.com/jakechorley/voluntarios/pkg/notify"
)

// Credentials is an email and password pair
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterVolunteer creates an unverified volunteer account and emails a
// verification link
func RegisterVolunteer(
	ctx context.Context,
	database db.UserStore,
	tokens *auth.TokenService,
	notifier notify.Notifier,
	logger *zap.Logger,
	baseURL string,
	creds Credentials,
) (*model.User, error) {
	if err := validateInput(creds); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(creds.Email),
		PasswordHash: hash,
		Role:         model.RoleVolunteer,
		CreatedAt:    time.Now().UTC(),
	}
	if err := database.InsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register volunteer: %w", err)
	}

	token, err := tokens.IssueVerificationToken(user.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Registered volunteer", zap.String("user_id", user.ID))

	notifier.Notify(ctx, notify.Message{
		Recipient: user.Email,
		Template:  notify.TemplateEmailVerification,
		Data:      map[string]string{"link": strings.TrimRight(baseURL, "/") + "/verify-email?token=" + token},
	})
	return user, nil
}

// VerifyEmail marks the account named by a verification token as verified
func VerifyEmail(ctx context.Context, database db.UserStore, tokens *auth.TokenService, logger *zap.Logger, token string) error {
	claims, err := tokens.ParseVerificationToken(token)
	if err != nil {
		return err
	}
	if err := database.SetUserEmailVerified(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	logger.Info("Verified email", zap.String("user_id", claims.UserID))
	return nil
}
