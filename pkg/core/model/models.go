package model

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOrgAdmin   Role = "org_admin"
	RoleVolunteer  Role = "volunteer"
)

func (r Role) IsValid() bool {
	return r == RoleSuperAdmin || r == RoleOrgAdmin || r == RoleVolunteer
}

// User is an account holder of any role
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	OrgID         string    `json:"orgId,omitempty"` // set only for org admins
	CreatedAt     time.Time `json:"createdAt"`
}

type OrganizationStatus string

const (
	OrganizationPending  OrganizationStatus = "pending"
	OrganizationApproved OrganizationStatus = "approved"
	OrganizationRejected OrganizationStatus = "rejected"
	OrganizationDisabled OrganizationStatus = "disabled"
)

func (s OrganizationStatus) IsValid() bool {
	switch s {
	case OrganizationPending, OrganizationApproved, OrganizationRejected, OrganizationDisabled:
		return true
	}
	return false
}

// Organization publishes opportunities once approved by a super admin
type Organization struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	ContactEmail string             `json:"contactEmail"`
	Description  string             `json:"description"`
	LogoPath     string             `json:"logoPath,omitempty"`
	Status       OrganizationStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Activity is one entry of the audit trail
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"` // empty for system-initiated entries
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity actions
const (
	ActionSignup                  = "SIGNUP_OPPORTUNITY"
	ActionCancelSignup            = "CANCEL_SIGNUP"
	ActionUpdateSignupStatus      = "UPDATE_SIGNUP_STATUS"
	ActionOpportunityStatusUpdate = "OPPORTUNITY_STATUS_UPDATE"
	ActionCreateOpportunity       = "CREATE_OPPORTUNITY"
	ActionUpdateOpportunity       = "UPDATE_OPPORTUNITY"
	ActionCreateSeries            = "CREATE_OPPORTUNITY_SERIES"
	ActionCreateOrganization      = "CREATE_ORGANIZATION"
	ActionUpdateOrganizationState = "UPDATE_ORGANIZATION_STATUS"
	ActionExportRoster            = "EXPORT_VOLUNTEERS_CSV"
	ActionPublishRoster           = "PUBLISH_ROSTER"
)

// RosterEntry is one volunteer line of an opportunity roster
type RosterEntry struct {
	SignupID    string       `json:"signupId"`
	VolunteerID string       `json:"volunteerId"`
	Email       string       `json:"email"`
	Status      SignupStatus `json:"status"`
	SignedUpAt  time.Time    `json:"signedUpAt"`
}

// VolunteerSignup is a signup joined with its opportunity and organization
type VolunteerSignup struct {
	SignupID         string       `json:"signupId"`
	Status           SignupStatus `json:"status"`
	SignedUpAt       time.Time    `json:"signedUpAt"`
	OpportunityID    string       `json:"opportunityId"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Location         string       `json:"location"`
	StartDate        time.Time    `json:"startDate"`
	EndDate          time.Time    `json:"endDate"`
	OrganizationName string       `json:"organizationName"`
}

// SignupDetail is a signup joined with volunteer email and opportunity title
type SignupDetail struct {
	Signup
	VolunteerEmail   string `json:"volunteerEmail"`
	OpportunityTitle string `json:"opportunityTitle"`
}

// OpportunityListing is an opportunity joined with its organization
type OpportunityListing struct {
	Opportunity
	OrganizationName         string `json:"organizationName"`
	OrganizationDescription  string `json:"organizationDescription"`
	OrganizationContactEmail string `json:"organizationContactEmail"`
	OrganizationLogoPath     string `json:"organizationLogoPath"`
}

// OpportunityFilter narrows public browsing
type OpportunityFilter struct {
	Location    string    // case-insensitive substring
	StartsAfter time.Time // zero means unbounded
	EndsBefore  time.Time // zero means unbounded
}
