package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

// InsertSignup inserts a new signup. The partial unique index on registered
// signups turns a concurrent duplicate into model.ErrDuplicateSignup.
func (s *store) InsertSignup(ctx context.Context, signup *model.Signup) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO signups (id, volunteer_id, opportunity_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, signup.ID, signup.VolunteerID, signup.OpportunityID, signup.Status, signup.CreatedAt.UTC())
	return mapError(err, "insert signup")
}

func (s *store) GetSignup(ctx context.Context, id string) (*model.Signup, error) {
	var su model.Signup
	err := s.q.QueryRow(ctx, `
		SELECT id, volunteer_id, opportunity_id, status, created_at
		FROM signups WHERE id = $1
	`, id).Scan(&su.ID, &su.VolunteerID, &su.OpportunityID, &su.Status, &su.CreatedAt)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("get signup %s", id))
	}
	return &su, nil
}

// GetSignupForUpdate locks the signup row so concurrent status changes queue
// behind this transaction and then see its result.
func (s *store) GetSignupForUpdate(ctx context.Context, id string) (*model.Signup, error) {
	var su model.Signup
	err := s.q.QueryRow(ctx, `
		SELECT id, volunteer_id, opportunity_id, status, created_at
		FROM signups WHERE id = $1 FOR UPDATE
	`, id).Scan(&su.ID, &su.VolunteerID, &su.OpportunityID, &su.Status, &su.CreatedAt)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("lock signup %s", id))
	}
	return &su, nil
}

func (s *store) HasActiveSignup(ctx context.Context, volunteerID, opportunityID string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM signups
			WHERE volunteer_id = $1 AND opportunity_id = $2 AND status = 'registered'
		)
	`, volunteerID, opportunityID).Scan(&exists)
	if err != nil {
		return false, mapError(err, "check active signup")
	}
	return exists, nil
}

// UpdateSignupStatus only changes a signup still in the from status
func (s *store) UpdateSignupStatus(ctx context.Context, id string, from, to model.SignupStatus) error {
	tag, err := s.q.Exec(ctx, `UPDATE signups SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return mapError(err, "update signup status")
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	current, err := s.GetSignup(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: signup %s is %s, not %s", model.ErrInvalidStatus, id, current.Status, from)
}

// CountSlotHoldingSignups counts registered and completed signups
func (s *store) CountSlotHoldingSignups(ctx context.Context, opportunityID string) (int, error) {
	var count int
	err := s.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM signups
		WHERE opportunity_id = $1 AND status IN ('registered', 'completed')
	`, opportunityID).Scan(&count)
	if err != nil {
		return 0, mapError(err, "count signups")
	}
	return count, nil
}

func (s *store) ListRoster(ctx context.Context, opportunityID string) ([]model.RosterEntry, error) {
	rows, err := s.q.Query(ctx, `
		SELECT s.id, s.volunteer_id, u.email, s.status, s.created_at
		FROM signups s
		JOIN users u ON u.id = s.volunteer_id
		WHERE s.opportunity_id = $1
		ORDER BY s.created_at ASC, s.id
	`, opportunityID)
	if err != nil {
		return nil, mapError(err, "query roster")
	}
	defer rows.Close()

	var roster []model.RosterEntry
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.SignupID, &e.VolunteerID, &e.Email, &e.Status, &e.SignedUpAt); err != nil {
			return nil, mapError(err, "scan roster entry")
		}
		roster = append(roster, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate roster")
	}
	return roster, nil
}

func (s *store) ListVolunteerSignups(ctx context.Context, volunteerID string) ([]model.VolunteerSignup, error) {
	rows, err := s.q.Query(ctx, `
		SELECT s.id, s.status, s.created_at, o.id, o.title, o.description, o.location,
			o.start_date, o.end_date, g.name
		FROM signups s
		JOIN opportunities o ON o.id = s.opportunity_id
		JOIN organizations g ON g.id = o.org_id
		WHERE s.volunteer_id = $1
		ORDER BY o.start_date ASC, s.id
	`, volunteerID)
	if err != nil {
		return nil, mapError(err, "query volunteer signups")
	}
	defer rows.Close()

	var signups []model.VolunteerSignup
	for rows.Next() {
		var v model.VolunteerSignup
		if err := rows.Scan(&v.SignupID, &v.Status, &v.SignedUpAt, &v.OpportunityID, &v.Title,
			&v.Description, &v.Location, &v.StartDate, &v.EndDate, &v.OrganizationName); err != nil {
			return nil, mapError(err, "scan volunteer signup")
		}
		signups = append(signups, v)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate volunteer signups")
	}
	return signups, nil
}

func (s *store) ListAllSignups(ctx context.Context) ([]model.SignupDetail, error) {
	rows, err := s.q.Query(ctx, `
		SELECT s.id, s.volunteer_id, s.opportunity_id, s.status, s.created_at, u.email, o.title
		FROM signups s
		JOIN users u ON u.id = s.volunteer_id
		JOIN opportunities o ON o.id = s.opportunity_id
		ORDER BY s.created_at DESC, s.id
	`)
	if err != nil {
		return nil, mapError(err, "query signups")
	}
	defer rows.Close()

	var details []model.SignupDetail
	for rows.Next() {
		var d model.SignupDetail
		if err := rows.Scan(&d.ID, &d.VolunteerID, &d.OpportunityID, &d.Status, &d.CreatedAt,
			&d.VolunteerEmail, &d.OpportunityTitle); err != nil {
			return nil, mapError(err, "scan signup")
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate signups")
	}
	return details, nil
}
