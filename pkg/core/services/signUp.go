package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
	"github.com/jakechorley/voluntarios/pkg/notify"
)

// SignUp claims one slot of a published opportunity for a volunteer.
//
// The opportunity row is locked for the whole check-and-mutate sequence, so
// concurrent signups for the same opportunity are serialized: with one slot
// left exactly one caller succeeds and the rest get ErrCapacityExhausted.
// Notifications are submitted only after the transaction commits.
func SignUp(
	ctx context.Context,
	database db.Transactor,
	notifier notify.Notifier,
	logger *zap.Logger,
	volunteerID string,
	opportunityID string,
) (*model.Signup, error) {
	if volunteerID == "" || opportunityID == "" {
		return nil, fmt.Errorf("%w: volunteer and opportunity are required", model.ErrValidation)
	}

	logger.Info("Signing up volunteer",
		zap.String("volunteer_id", volunteerID),
		zap.String("opportunity_id", opportunityID))

	var (
		signup    *model.Signup
		opp       *model.Opportunity
		volunteer *model.User
		orgAdmin  *model.User
	)

	err := database.WithTx(ctx, func(tx db.Store) error {
		var err error
		opp, err = tx.GetOpportunityForUpdate(ctx, opportunityID)
		if err != nil {
			return err
		}

		// duplicates first: a retried request after an ambiguous success must
		// report DuplicateSignup even once the opportunity has filled up
		active, err := tx.HasActiveSignup(ctx, volunteerID, opportunityID)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("%w: volunteer %s, opportunity %s", model.ErrDuplicateSignup, volunteerID, opportunityID)
		}

		switch opp.Status {
		case model.OpportunityPublished:
		case model.OpportunityFull:
			return fmt.Errorf("%w: opportunity %s is full", model.ErrCapacityExhausted, opportunityID)
		default:
			return fmt.Errorf("%w: opportunity %s is %s", model.ErrOpportunityNotAvailable, opportunityID, opp.Status)
		}

		volunteer, err = tx.GetUserByID(ctx, volunteerID)
		if err != nil {
			return err
		}

		previous := opp.Status
		if err := opp.ClaimSlot(); err != nil {
			return err
		}

		signup = &model.Signup{
			ID:            uuid.New().String(),
			VolunteerID:   volunteerID,
			OpportunityID: opportunityID,
			Status:        model.SignupRegistered,
			CreatedAt:     time.Now().UTC(),
		}
		if err := tx.InsertSignup(ctx, signup); err != nil {
			return err
		}
		if err := tx.UpdateOpportunity(ctx, opp); err != nil {
			return err
		}

		if err := recordActivity(ctx, tx, volunteerID, model.ActionSignup,
			fmt.Sprintf("Volunteer %s signed up for opportunity %s (ID: %s)", volunteer.Email, opp.Title, opp.ID)); err != nil {
			return err
		}
		if err := recordStatusChange(ctx, tx, opp, previous); err != nil {
			return err
		}

		orgAdmin, err = lookupOrganizationAdmin(ctx, tx, opp.OrgID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	logger.Info("Volunteer signed up",
		zap.String("signup_id", signup.ID),
		zap.Int("remaining_slots", opp.RemainingSlots),
		zap.String("opportunity_status", string(opp.Status)))

	notifier.Notify(ctx, notify.Message{
		Recipient: volunteer.Email,
		Template:  notify.TemplateSignupConfirmation,
		Data:      opportunityData(opp, volunteer),
	})
	if orgAdmin != nil {
		notifier.Notify(ctx, notify.Message{
			Recipient: orgAdmin.Email,
			Template:  notify.TemplateOrganizationNewSignup,
			Data:      opportunityData(opp, volunteer),
		})
	}

	return signup, nil
}

// lookupOrganizationAdmin returns nil when the organization has no admin account
func lookupOrganizationAdmin(ctx context.Context, store db.UserStore, orgID string) (*model.User, error) {
	admin, err := store.GetOrganizationAdmin(ctx, orgID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	return admin, err
}

func opportunityData(opp *model.Opportunity, volunteer *model.User) map[string]string {
	data := map[string]string{
		"opportunityId": opp.ID,
		"title":         opp.Title,
		"location":      opp.Location,
		"startDate":     opp.StartDate.Format("2006-01-02 15:04"),
	}
	if volunteer != nil {
		data["volunteerEmail"] = volunteer.Email
	}
	return data
}
