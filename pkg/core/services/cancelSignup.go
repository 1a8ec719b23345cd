package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
	"github.com/jakechorley/voluntarios/pkg/notify"
)

// CancelSignup cancels a volunteer's own registered signup before the
// opportunity starts and returns the slot to the opportunity.
func CancelSignup(
	ctx context.Context,
	database db.Transactor,
	notifier notify.Notifier,
	logger *zap.Logger,
	signupID string,
	requesterID string,
) error {
	if signupID == "" || requesterID == "" {
		return fmt.Errorf("%w: signup and requester are required", model.ErrValidation)
	}

	logger.Info("Cancelling signup",
		zap.String("signup_id", signupID),
		zap.String("requester_id", requesterID))

	var (
		opp       *model.Opportunity
		volunteer *model.User
		orgAdmin  *model.User
	)

	err := database.WithTx(ctx, func(tx db.Store) error {
		signup, err := tx.GetSignup(ctx, signupID)
		if err != nil {
			return err
		}
		if signup.VolunteerID != requesterID {
			return fmt.Errorf("%w: signup %s", model.ErrNotFound, signupID)
		}

		opp, err = tx.GetOpportunityForUpdate(ctx, signup.OpportunityID)
		if err != nil {
			return err
		}
		// re-read under the lock: a concurrent change may have committed since the first read
		signup, err = tx.GetSignupForUpdate(ctx, signupID)
		if err != nil {
			return err
		}
		// the cancellation window check applies whatever the signup's status
		if opp.HasStarted(time.Now()) {
			return fmt.Errorf("%w: opportunity %s started at %s",
				model.ErrEventAlreadyStarted, opp.ID, opp.StartDate.Format(time.RFC3339))
		}
		if signup.Status != model.SignupRegistered {
			return fmt.Errorf("%w: no registered signup %s", model.ErrNotFound, signupID)
		}

		volunteer, err = tx.GetUserByID(ctx, requesterID)
		if err != nil {
			return err
		}

		previous := opp.Status
		if err := opp.ReleaseSlot(); err != nil {
			return err
		}
		if err := tx.UpdateSignupStatus(ctx, signupID, model.SignupRegistered, model.SignupCancelled); err != nil {
			return err
		}
		if err := tx.UpdateOpportunity(ctx, opp); err != nil {
			return err
		}

		if err := recordActivity(ctx, tx, requesterID, model.ActionCancelSignup,
			fmt.Sprintf("Volunteer %s cancelled signup for opportunity %s (ID: %s)", volunteer.Email, opp.Title, opp.ID)); err != nil {
			return err
		}
		if err := recordStatusChange(ctx, tx, opp, previous); err != nil {
			return err
		}

		orgAdmin, err = lookupOrganizationAdmin(ctx, tx, opp.OrgID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to cancel signup: %w", err)
	}

	logger.Info("Signup cancelled",
		zap.String("signup_id", signupID),
		zap.Int("remaining_slots", opp.RemainingSlots),
		zap.String("opportunity_status", string(opp.Status)))

	if orgAdmin != nil {
		notifier.Notify(ctx, notify.Message{
			Recipient: orgAdmin.Email,
			Template:  notify.TemplateSignupCancelled,
			Data:      opportunityData(opp, volunteer),
		})
	}

	return nil
}
