package services

import (
	"context"
	"fmt"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

// ListOrganizationOpportunities returns every opportunity of an organization
func ListOrganizationOpportunities(ctx context.Context, store db.OpportunityStore, orgID string) ([]model.Opportunity, error) {
	opps, err := store.ListOpportunitiesByOrg(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return opps, nil
}

// ListPublishedOpportunities returns what volunteers can browse
func ListPublishedOpportunities(ctx context.Context, store db.OpportunityStore, filter model.OpportunityFilter) ([]model.OpportunityListing, error) {
	listings, err := store.ListPublishedOpportunities(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list published opportunities: %w", err)
	}
	return listings, nil
}

// ListAllOpportunities returns every opportunity with its organization
func ListAllOpportunities(ctx context.Context, store db.OpportunityStore) ([]model.OpportunityListing, error) {
	listings, err := store.ListAllOpportunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return listings, nil
}

// PublicOpportunityStore defines the database operations needed to show one public opportunity
type PublicOpportunityStore interface {
	GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error)
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
}

// GetPublishedOpportunity returns a published opportunity of an approved
// organization; anything else is reported as not found
func GetPublishedOpportunity(ctx context.Context, store PublicOpportunityStore, opportunityID string) (*model.OpportunityListing, error) {
	opp, err := store.GetOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	if opp.Status != model.OpportunityPublished {
		return nil, fmt.Errorf("%w: opportunity %s", model.ErrNotFound, opportunityID)
	}

	org, err := store.GetOrganization(ctx, opp.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if org.Status != model.OrganizationApproved {
		return nil, fmt.Errorf("%w: opportunity %s", model.ErrNotFound, opportunityID)
	}

	return &model.OpportunityListing{
		Opportunity:              *opp,
		OrganizationName:         org.Name,
		OrganizationDescription:  org.Description,
		OrganizationContactEmail: org.ContactEmail,
		OrganizationLogoPath:     org.LogoPath,
	}, nil
}
