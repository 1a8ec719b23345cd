package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
	"github.com/jakechorley/voluntarios/pkg/notify"
)

// MarkSignupStatus records attendance or cancels a signup on behalf of the
// organization that owns the opportunity. Only registered signups can move,
// and only to completed or cancelled. Completing keeps the slot. Cancelling
// deliberately returns it, even though the organization rather than the
// volunteer made the change, so remaining slots stay in step with slot-holding signups.
func MarkSignupStatus(
	ctx context.Context,
	database db.Transactor,
	notifier notify.Notifier,
	logger *zap.Logger,
	signupID string,
	newStatus model.SignupStatus,
	requesterOrgID string,
	actorID string,
) error {
	if newStatus != model.SignupCompleted && newStatus != model.SignupCancelled {
		return fmt.Errorf("%w: signups can only be marked %s or %s, got %q",
			model.ErrInvalidStatus, model.SignupCompleted, model.SignupCancelled, newStatus)
	}
	if signupID == "" || requesterOrgID == "" {
		return fmt.Errorf("%w: signup and organization are required", model.ErrValidation)
	}

	logger.Info("Updating signup status",
		zap.String("signup_id", signupID),
		zap.String("status", string(newStatus)),
		zap.String("org_id", requesterOrgID))

	var (
		opp       *model.Opportunity
		volunteer *model.User
	)

	err := database.WithTx(ctx, func(tx db.Store) error {
		signup, err := tx.GetSignup(ctx, signupID)
		if err != nil {
			return err
		}

		opp, err = tx.GetOpportunityForUpdate(ctx, signup.OpportunityID)
		if err != nil {
			return err
		}
		if opp.OrgID != requesterOrgID {
			return fmt.Errorf("%w: signup %s belongs to another organization", model.ErrNotAuthorized, signupID)
		}

		signup, err = tx.GetSignupForUpdate(ctx, signupID)
		if err != nil {
			return err
		}
		if err := model.CheckTransition(signup.Status, newStatus); err != nil {
			return err
		}

		if err := tx.UpdateSignupStatus(ctx, signupID, signup.Status, newStatus); err != nil {
			return err
		}

		previous := opp.Status
		if newStatus == model.SignupCancelled {
			if err := opp.ReleaseSlot(); err != nil {
				return err
			}
			if err := tx.UpdateOpportunity(ctx, opp); err != nil {
				return err
			}
		}

		if err := recordActivity(ctx, tx, actorID, model.ActionUpdateSignupStatus,
			fmt.Sprintf("Signup %s for opportunity %s (ID: %s) marked %s", signupID, opp.Title, opp.ID, newStatus)); err != nil {
			return err
		}
		if err := recordStatusChange(ctx, tx, opp, previous); err != nil {
			return err
		}

		if newStatus == model.SignupCancelled {
			volunteer, err = tx.GetUserByID(ctx, signup.VolunteerID)
			if errors.Is(err, model.ErrNotFound) {
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update signup status: %w", err)
	}

	logger.Info("Signup status updated",
		zap.String("signup_id", signupID),
		zap.String("status", string(newStatus)),
		zap.Int("remaining_slots", opp.RemainingSlots))

	if volunteer != nil {
		notifier.Notify(ctx, notify.Message{
			Recipient: volunteer.Email,
			Template:  notify.TemplateSignupCancelled,
			Data:      opportunityData(opp, volunteer),
		})
	}

	return nil
}
