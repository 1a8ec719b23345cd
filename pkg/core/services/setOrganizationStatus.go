package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// SetOrganizationStatus approves, rejects or disables an organization
func SetOrganizationStatus(
	ctx context.Context,
	database db.Transactor,
	logger *zap.Logger,
	actorID string,
	orgID string,
	status model.OrganizationStatus,
) error {
	switch status {
	case model.OrganizationApproved, model.OrganizationRejected, model.OrganizationDisabled:
	default:
		return fmt.Errorf("%w: organization status must be approved, rejected or disabled, got %q", model.ErrInvalidStatus, status)
	}

	err := database.WithTx(ctx, func(tx db.Store) error {
		org, err := tx.GetOrganization(ctx, orgID)
		if err != nil {
			return err
		}
		if err := tx.UpdateOrganizationStatus(ctx, orgID, status); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actorID, model.ActionUpdateOrganizationState,
			fmt.Sprintf("Organization %s (ID: %s) status updated to %s", org.Name, orgID, status))
	})
	if err != nil {
		return fmt.Errorf("failed to set organization status: %w", err)
	}

	logger.Info("Organization status updated", zap.String("org_id", orgID), zap.String("status", string(status)))
	return nil
}

// ListOrganizations returns all organizations, or only those in status when it is set
func ListOrganizations(ctx context.Context, store db.OrganizationStore, status model.OrganizationStatus) ([]model.Organization, error) {
	if status != "" && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown organization status %q", model.ErrInvalidStatus, status)
	}

	orgs, err := store.ListOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	if status == "" {
		return orgs, nil
	}

	filtered := make([]model.Organization, 0, len(orgs))
	for _, org := range orgs {
		if org.Status == status {
			filtered = append(filtered, org)
		}
	}
	return filtered, nil
}
