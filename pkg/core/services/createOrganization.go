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
)

// OrganizationInput describes a new organization and its first admin account
type OrganizationInput struct {
	Name          string `json:"name" validate:"required,max=200"`
	ContactEmail  string `json:"contactEmail" validate:"required,email"`
	Description   string `json:"description" validate:"max=5000"`
	AdminEmail    string `json:"orgAdminEmail" validate:"required,email"`
	AdminPassword string `json:"orgAdminPassword" validate:"required,min=8,max=72"`
}

// CreateOrganization creates a pending organization together with its admin.
// Admin accounts are created with a verified email.
func CreateOrganization(
	ctx context.Context,
	database db.Transactor,
	logger *zap.Logger,
	actorID string,
	input OrganizationInput,
) (*model.Organization, *model.User, error) {
	if err := validateInput(input); err != nil {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(input.AdminPassword)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	org := &model.Organization{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(input.Name),
		ContactEmail: input.ContactEmail,
		Description:  input.Description,
		Status:       model.OrganizationPending,
		CreatedAt:    now,
	}
	admin := &model.User{
		ID:            uuid.New().String(),
		Email:         strings.ToLower(input.AdminEmail),
		PasswordHash:  hash,
		Role:          model.RoleOrgAdmin,
		EmailVerified: true,
		OrgID:         org.ID,
		CreatedAt:     now,
	}

	err = database.WithTx(ctx, func(tx db.Store) error {
		if err := tx.InsertOrganization(ctx, org); err != nil {
			return err
		}
		if err := tx.InsertUser(ctx, admin); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actorID, model.ActionCreateOrganization,
			fmt.Sprintf("Organization %s created with ID %s. Org Admin: %s", org.Name, org.ID, admin.Email))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create organization: %w", err)
	}

	logger.Info("Created organization",
		zap.String("org_id", org.ID),
		zap.String("name", org.Name),
		zap.String("admin_email", admin.Email))
	return org, admin, nil
}
