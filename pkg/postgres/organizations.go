package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

const organizationColumns = `id, name, contact_email, description, logo_path, status, created_at`

func scanOrganization(row pgx.Row) (*model.Organization, error) {
	var o model.Organization
	if err := row.Scan(&o.ID, &o.Name, &o.ContactEmail, &o.Description, &o.LogoPath, &o.Status, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// InsertOrganization inserts a new organization record
func (s *store) InsertOrganization(ctx context.Context, org *model.Organization) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO organizations (id, name, contact_email, description, logo_path, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, org.ID, org.Name, org.ContactEmail, org.Description, org.LogoPath, org.Status, org.CreatedAt.UTC())
	return mapError(err, "insert organization")
}

func (s *store) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	o, err := scanOrganization(s.q.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("get organization %s", id))
	}
	return o, nil
}

// ListOrganizations returns all organizations, newest first
func (s *store) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	rows, err := s.q.Query(ctx, `SELECT `+organizationColumns+` FROM organizations ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, mapError(err, "query organizations")
	}
	defer rows.Close()

	var orgs []model.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, mapError(err, "scan organization")
		}
		orgs = append(orgs, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "iterate organizations")
	}
	return orgs, nil
}

func (s *store) UpdateOrganizationStatus(ctx context.Context, id string, status model.OrganizationStatus) error {
	tag, err := s.q.Exec(ctx, `UPDATE organizations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return mapError(err, "update organization status")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: organization %s", model.ErrNotFound, id)
	}
	return nil
}
