package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

const opportunityColumns = `o.id, o.org_id, o.series_id, o.title, o.description, o.location,
	o.start_date, o.end_date, o.total_slots, o.remaining_slots, o.status, o.created_at`

const organizationJoinColumns = `g.name, g.description, g.contact_email, g.logo_path`

func opportunityDest(o *model.Opportunity, seriesID **string) []any {
	return []any{&o.ID, &o.OrgID, seriesID, &o.Title, &o.Description, &o.Location,
		&o.StartDate, &o.EndDate, &o.TotalSlots, &o.RemainingSlots, &o.Status, &o.CreatedAt}
}

func scanOpportunity(row pgx.Row) (*model.Opportunity, error) {
	var o model.Opportunity
	var seriesID *string
	if err := row.Scan(opportunityDest(&o, &seriesID)...); err != nil {
		return nil, err
	}
	o.SeriesID = deref(seriesID)
	return &o, nil
}

func scanListing(row pgx.Row) (*model.OpportunityListing, error) {
	var l model.OpportunityListing
	var seriesID *string
	dest := append(opportunityDest(&l.Opportunity, &seriesID),
		&l.OrganizationName, &l.OrganizationDescription, &l.OrganizationContactEmail, &l.OrganizationLogoPath)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	l.SeriesID = deref(seriesID)
	return &l, nil
}

// InsertOpportunity inserts a new opportunity record
func (s *store) InsertOpportunity(ctx context.Context, opp *model.Opportunity) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO opportunities (id, org_id, series_id, title, description, location,
			start_date, end_date, total_slots, remaining_slots, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, opp.ID, opp.OrgID, nullable(opp.SeriesID), opp.Title, opp.Description, opp.Location,
		opp.StartDate.UTC(), opp.EndDate.UTC(), opp.TotalSlots, opp.RemainingSlots, opp.Status, opp.CreatedAt.UTC())
	return mapError(err, "insert opportunity")
}

func (s *store) GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	o, err := scanOpportunity(s.q.QueryRow(ctx, `SELECT `+opportunityColumns+` FROM opportunities o WHERE o.id = $1`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("get opportunity %s", id))
	}
	return o, nil
}

// GetOpportunityForUpdate locks the opportunity row until the transaction ends.
// Concurrent signups and cancellations for the same opportunity queue here.
func (s *store) GetOpportunityForUpdate(ctx context.Context, id string) (*model.Opportunity, error) {
	o, err := scanOpportunity(s.q.QueryRow(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities o WHERE o.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("lock opportunity %s", id))
	}
	return o, nil
}

// UpdateOpportunity writes every mutable field of the opportunity
func (s *store) UpdateOpportunity(ctx context.Context, opp *model.Opportunity) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE opportunities
		SET title = $2, description = $3, location = $4, start_date = $5, end_date = $6,
			total_slots = $7, remaining_slots = $8, status = $9
		WHERE id = $1
	`, opp.ID, opp.Title, opp.Description, opp.Location, opp.StartDate.UTC(), opp.EndDate.UTC(),
		opp.TotalSlots, opp.RemainingSlots, opp.Status)
	if err != nil {
		return mapError(err, "update opportunity")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: opportunity %s", model.ErrNotFound, opp.ID)
	}
	return nil
}

func (s *store) ListOpportunitiesByOrg(ctx context.Context, orgID string) ([]model.Opportunity, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+opportunityColumns+`
		FROM opportunities o
		WHERE o.org_id = $1
		ORDER BY o.created_at DESC, o.id
	`, orgID)
	if err != nil {
		return nil, mapError(err, "query organization opportunities")
	}
	defer rows.Close()

	var opps []model.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, mapError(err, "scan opportunity")
		}
		opps = append(opps, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate opportunities")
	}
	return opps, nil
}

// ListPublishedOpportunities returns published opportunities of approved
// organizations matching the filter, soonest first
func (s *store) ListPublishedOpportunities(ctx context.Context, filter model.OpportunityFilter) ([]model.OpportunityListing, error) {
	conditions := []string{`o.status = 'published'`, `g.status = 'approved'`}
	var args []any

	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		conditions = append(conditions, fmt.Sprintf("o.location ILIKE $%d", len(args)))
	}
	if !filter.StartsAfter.IsZero() {
		args = append(args, filter.StartsAfter.UTC())
		conditions = append(conditions, fmt.Sprintf("o.start_date >= $%d", len(args)))
	}
	if !filter.EndsBefore.IsZero() {
		args = append(args, filter.EndsBefore.UTC())
		conditions = append(conditions, fmt.Sprintf("o.end_date <= $%d", len(args)))
	}

	query := `
		SELECT ` + opportunityColumns + `, ` + organizationJoinColumns + `
		FROM opportunities o
		JOIN organizations g ON g.id = o.org_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY o.start_date ASC, o.id`

	return s.queryListings(ctx, query, args...)
}

// ListAllOpportunities returns every opportunity regardless of status, newest first
func (s *store) ListAllOpportunities(ctx context.Context) ([]model.OpportunityListing, error) {
	return s.queryListings(ctx, `
		SELECT `+opportunityColumns+`, `+organizationJoinColumns+`
		FROM opportunities o
		JOIN organizations g ON g.id = o.org_id
		ORDER BY o.created_at DESC, o.id`)
}

func (s *store) queryListings(ctx context.Context, query string, args ...any) ([]model.OpportunityListing, error) {
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query opportunities")
	}
	defer rows.Close()

	var listings []model.OpportunityListing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, mapError(err, "scan opportunity")
		}
		listings = append(listings, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate opportunities")
	}
	return listings, nil
}
