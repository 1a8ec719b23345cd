package db

import (
	"context"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

// UserStore defines the interface for account database operations
type UserStore interface {
	InsertUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetOrganizationAdmin(ctx context.Context, orgID string) (*model.User, error)
	SetUserEmailVerified(ctx context.Context, id string) error
}

// OrganizationStore defines the interface for organization database operations
type OrganizationStore interface {
	InsertOrganization(ctx context.Context, org *model.Organization) error
	GetOrganization(ctx context.Context, id string) (*model.Organization, error)
	ListOrganizations(ctx context.Context) ([]model.Organization, error)
	UpdateOrganizationStatus(ctx context.Context, id string, status model.OrganizationStatus) error
}

// OpportunityStore defines the interface for opportunity database operations
type OpportunityStore interface {
	InsertOpportunity(ctx context.Context, opp *model.Opportunity) error
	GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error)
	// GetOpportunityForUpdate loads an opportunity and holds an exclusive lock
	// on it until the surrounding transaction ends
	GetOpportunityForUpdate(ctx context.Context, id string) (*model.Opportunity, error)
	UpdateOpportunity(ctx context.Context, opp *model.Opportunity) error
	ListOpportunitiesByOrg(ctx context.Context, orgID string) ([]model.Opportunity, error)
	ListPublishedOpportunities(ctx context.Context, filter model.OpportunityFilter) ([]model.OpportunityListing, error)
	ListAllOpportunities(ctx context.Context) ([]model.OpportunityListing, error)
}

// SignupStore defines the interface for signup database operations
type SignupStore interface {
	// InsertSignup fails with model.ErrDuplicateSignup when the volunteer already
	// holds a registered signup for the opportunity
	InsertSignup(ctx context.Context, signup *model.Signup) error
	GetSignup(ctx context.Context, id string) (*model.Signup, error)
	// GetSignupForUpdate locks the signup row until the transaction ends
	GetSignupForUpdate(ctx context.Context, id string) (*model.Signup, error)
	HasActiveSignup(ctx context.Context, volunteerID, opportunityID string) (bool, error)
	// UpdateSignupStatus moves a signup from one status to another. It fails
	// with model.ErrInvalidStatus when the stored status is no longer from.
	UpdateSignupStatus(ctx context.Context, id string, from, to model.SignupStatus) error
	CountSlotHoldingSignups(ctx context.Context, opportunityID string) (int, error)
	ListRoster(ctx context.Context, opportunityID string) ([]model.RosterEntry, error)
	ListVolunteerSignups(ctx context.Context, volunteerID string) ([]model.VolunteerSignup, error)
	ListAllSignups(ctx context.Context) ([]model.SignupDetail, error)
}

// ActivityStore defines the interface for the activity log
type ActivityStore interface {
	InsertActivity(ctx context.Context, activity *model.Activity) error
	ListActivity(ctx context.Context, limit int) ([]model.Activity, error)
}

// Store is the full set of operations available inside or outside a transaction
type Store interface {
	UserStore
	OrganizationStore
	OpportunityStore
	SignupStore
	ActivityStore
}

// Transactor runs fn atomically. fn's Store must only be used inside fn.
// The transaction commits when fn returns nil and rolls back otherwise,
// including when fn panics.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// Database defines the interface for all database operations.
// Both the in-memory db.MemoryDB and postgres.DB implement this interface.
type Database interface {
	Store
	Transactor
	Close()
}
