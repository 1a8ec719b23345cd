package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

// MemoryDB is an in-process Database. Every transaction and every standalone
// call runs under one mutex, so writers are fully serialized and a failed
// transaction is undone by restoring the snapshot taken when it began.
type MemoryDB struct {
	mu   sync.Mutex
	data *memoryData
}

type memoryData struct {
	users         map[string]model.User
	organizations map[string]model.Organization
	opportunities map[string]model.Opportunity
	signups       map[string]model.Signup
	activity      []model.Activity
}

var (
	_ Database = (*MemoryDB)(nil)
	_ Store    = (*memoryTx)(nil)
)

// NewMemoryDB creates an empty in-memory database
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{data: newMemoryData()}
}

func newMemoryData() *memoryData {
	return &memoryData{
		users:         make(map[string]model.User),
		organizations: make(map[string]model.Organization),
		opportunities: make(map[string]model.Opportunity),
		signups:       make(map[string]model.Signup),
	}
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.organizations {
		c.organizations[k] = v
	}
	for k, v := range d.opportunities {
		c.opportunities[k] = v
	}
	for k, v := range d.signups {
		c.signups[k] = v
	}
	c.activity = append([]model.Activity(nil), d.activity...)
	return c
}

// Close is a no-op for the in-memory store
func (m *MemoryDB) Close() {}

// WithTx runs fn with exclusive access to the store
func (m *MemoryDB) WithTx(ctx context.Context, fn func(tx Store) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	defer func() {
		if p := recover(); p != nil {
			m.data = snapshot
			panic(p)
		}
		if err != nil {
			m.data = snapshot
		}
	}()

	return fn(&memoryTx{data: m.data})
}

func (m *MemoryDB) locked(fn func(tx *memoryTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memoryTx{data: m.data})
}

// memoryTx implements Store over the shared data without locking;
// callers hold MemoryDB.mu
type memoryTx struct {
	data *memoryData
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", model.ErrNotFound, kind, id)
}

// Users

func (t *memoryTx) InsertUser(ctx context.Context, user *model.User) error {
	if _, exists := t.data.users[user.ID]; exists {
		return fmt.Errorf("%w: user %s already exists", model.ErrConflict, user.ID)
	}
	for _, u := range t.data.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("%w: email %s is already registered", model.ErrConflict, user.Email)
		}
	}
	t.data.users[user.ID] = *user
	return nil
}

func (t *memoryTx) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := t.data.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (t *memoryTx) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range t.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, notFound("user", email)
}

func (t *memoryTx) GetOrganizationAdmin(ctx context.Context, orgID string) (*model.User, error) {
	var admin *model.User
	for _, u := range t.data.users {
		if u.OrgID == orgID && u.Role == model.RoleOrgAdmin {
			if admin == nil || u.CreatedAt.Before(admin.CreatedAt) {
				admin = &u
			}
		}
	}
	if admin == nil {
		return nil, notFound("organization admin", orgID)
	}
	return admin, nil
}

func (t *memoryTx) SetUserEmailVerified(ctx context.Context, id string) error {
	u, ok := t.data.users[id]
	if !ok {
		return notFound("user", id)
	}
	u.EmailVerified = true
	t.data.users[id] = u
	return nil
}

// Organizations

func (t *memoryTx) InsertOrganization(ctx context.Context, org *model.Organization) error {
	if _, exists := t.data.organizations[org.ID]; exists {
		return fmt.Errorf("%w: organization %s already exists", model.ErrConflict, org.ID)
	}
	for _, o := range t.data.organizations {
		if strings.EqualFold(o.Name, org.Name) {
			return fmt.Errorf("%w: organization %q already exists", model.ErrConflict, org.Name)
		}
	}
	t.data.organizations[org.ID] = *org
	return nil
}

func (t *memoryTx) GetOrganization(ctx context.Context, id string) (*model.Organization, error) {
	o, ok := t.data.organizations[id]
	if !ok {
		return nil, notFound("organization", id)
	}
	return &o, nil
}

func (t *memoryTx) ListOrganizations(ctx context.Context) ([]model.Organization, error) {
	orgs := make([]model.Organization, 0, len(t.data.organizations))
	for _, o := range t.data.organizations {
		orgs = append(orgs, o)
	}
	sort.Slice(orgs, func(i, j int) bool {
		if orgs[i].CreatedAt.Equal(orgs[j].CreatedAt) {
			return orgs[i].ID < orgs[j].ID
		}
		return orgs[i].CreatedAt.After(orgs[j].CreatedAt)
	})
	return orgs, nil
}

func (t *memoryTx) UpdateOrganizationStatus(ctx context.Context, id string, status model.OrganizationStatus) error {
	o, ok := t.data.organizations[id]
	if !ok {
		return notFound("organization", id)
	}
	o.Status = status
	t.data.organizations[id] = o
	return nil
}

// Opportunities

func (t *memoryTx) InsertOpportunity(ctx context.Context, opp *model.Opportunity) error {
	if _, exists := t.data.opportunities[opp.ID]; exists {
		return fmt.Errorf("%w: opportunity %s already exists", model.ErrConflict, opp.ID)
	}
	if _, ok := t.data.organizations[opp.OrgID]; !ok {
		return notFound("organization", opp.OrgID)
	}
	t.data.opportunities[opp.ID] = *opp
	return nil
}

func (t *memoryTx) GetOpportunity(ctx context.Context, id string) (*model.Opportunity, error) {
	o, ok := t.data.opportunities[id]
	if !ok {
		return nil, notFound("opportunity", id)
	}
	return &o, nil
}

// GetOpportunityForUpdate needs no extra locking: the caller already holds the store mutex
func (t *memoryTx) GetOpportunityForUpdate(ctx context.Context, id string) (*model.Opportunity, error) {
	return t.GetOpportunity(ctx, id)
}

func (t *memoryTx) UpdateOpportunity(ctx context.Context, opp *model.Opportunity) error {
	if _, ok := t.data.opportunities[opp.ID]; !ok {
		return notFound("opportunity", opp.ID)
	}
	t.data.opportunities[opp.ID] = *opp
	return nil
}

func (t *memoryTx) ListOpportunitiesByOrg(ctx context.Context, orgID string) ([]model.Opportunity, error) {
	var opps []model.Opportunity
	for _, o := range t.data.opportunities {
		if o.OrgID == orgID {
			opps = append(opps, o)
		}
	}
	sort.Slice(opps, func(i, j int) bool { return newerFirst(opps[i], opps[j]) })
	return opps, nil
}

func (t *memoryTx) ListPublishedOpportunities(ctx context.Context, filter model.OpportunityFilter) ([]model.OpportunityListing, error) {
	location := strings.ToLower(filter.Location)

	var listings []model.OpportunityListing
	for _, o := range t.data.opportunities {
		if o.Status != model.OpportunityPublished {
			continue
		}
		org, ok := t.data.organizations[o.OrgID]
		if !ok || org.Status != model.OrganizationApproved {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(o.Location), location) {
			continue
		}
		if !filter.StartsAfter.IsZero() && o.StartDate.Before(filter.StartsAfter) {
			continue
		}
		if !filter.EndsBefore.IsZero() && o.EndDate.After(filter.EndsBefore) {
			continue
		}
		listings = append(listings, listing(o, org))
	}
	sort.Slice(listings, func(i, j int) bool {
		if listings[i].StartDate.Equal(listings[j].StartDate) {
			return listings[i].ID < listings[j].ID
		}
		return listings[i].StartDate.Before(listings[j].StartDate)
	})
	return listings, nil
}

func (t *memoryTx) ListAllOpportunities(ctx context.Context) ([]model.OpportunityListing, error) {
	listings := make([]model.OpportunityListing, 0, len(t.data.opportunities))
	for _, o := range t.data.opportunities {
		listings = append(listings, listing(o, t.data.organizations[o.OrgID]))
	}
	sort.Slice(listings, func(i, j int) bool { return newerFirst(listings[i].Opportunity, listings[j].Opportunity) })
	return listings, nil
}

func listing(o model.Opportunity, org model.Organization) model.OpportunityListing {
	return model.OpportunityListing{
		Opportunity:              o,
		OrganizationName:         org.Name,
		OrganizationDescription:  org.Description,
		OrganizationContactEmail: org.ContactEmail,
		OrganizationLogoPath:     org.LogoPath,
	}
}

func newerFirst(a, b model.Opportunity) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// Signups

func (t *memoryTx) InsertSignup(ctx context.Context, signup *model.Signup) error {
	if _, exists := t.data.signups[signup.ID]; exists {
		return fmt.Errorf("%w: signup %s already exists", model.ErrConflict, signup.ID)
	}
	if signup.Status == model.SignupRegistered {
		active, _ := t.HasActiveSignup(ctx, signup.VolunteerID, signup.OpportunityID)
		if active {
			return fmt.Errorf("%w: volunteer %s, opportunity %s",
				model.ErrDuplicateSignup, signup.VolunteerID, signup.OpportunityID)
		}
	}
	t.data.signups[signup.ID] = *signup
	return nil
}

func (t *memoryTx) GetSignup(ctx context.Context, id string) (*model.Signup, error) {
	s, ok := t.data.signups[id]
	if !ok {
		return nil, notFound("signup", id)
	}
	return &s, nil
}

// GetSignupForUpdate needs no extra locking: the caller already holds the store mutex
func (t *memoryTx) GetSignupForUpdate(ctx context.Context, id string) (*model.Signup, error) {
	return t.GetSignup(ctx, id)
}

func (t *memoryTx) HasActiveSignup(ctx context.Context, volunteerID, opportunityID string) (bool, error) {
	for _, s := range t.data.signups {
		if s.VolunteerID == volunteerID && s.OpportunityID == opportunityID && s.Status == model.SignupRegistered {
			return true, nil
		}
	}
	return false, nil
}

func (t *memoryTx) UpdateSignupStatus(ctx context.Context, id string, from, to model.SignupStatus) error {
	s, ok := t.data.signups[id]
	if !ok {
		return notFound("signup", id)
	}
	if s.Status != from {
		return fmt.Errorf("%w: signup %s is %s, not %s", model.ErrInvalidStatus, id, s.Status, from)
	}
	s.Status = to
	t.data.signups[id] = s
	return nil
}

func (t *memoryTx) CountSlotHoldingSignups(ctx context.Context, opportunityID string) (int, error) {
	count := 0
	for _, s := range t.data.signups {
		if s.OpportunityID == opportunityID && s.Status.HoldsSlot() {
			count++
		}
	}
	return count, nil
}

func (t *memoryTx) ListRoster(ctx context.Context, opportunityID string) ([]model.RosterEntry, error) {
	var roster []model.RosterEntry
	for _, s := range t.data.signups {
		if s.OpportunityID != opportunityID {
			continue
		}
		roster = append(roster, model.RosterEntry{
			SignupID:    s.ID,
			VolunteerID: s.VolunteerID,
			Email:       t.data.users[s.VolunteerID].Email,
			Status:      s.Status,
			SignedUpAt:  s.CreatedAt,
		})
	}
	sort.Slice(roster, func(i, j int) bool {
		if roster[i].SignedUpAt.Equal(roster[j].SignedUpAt) {
			return roster[i].SignupID < roster[j].SignupID
		}
		return roster[i].SignedUpAt.Before(roster[j].SignedUpAt)
	})
	return roster, nil
}

func (t *memoryTx) ListVolunteerSignups(ctx context.Context, volunteerID string) ([]model.VolunteerSignup, error) {
	var signups []model.VolunteerSignup
	for _, s := range t.data.signups {
		if s.VolunteerID != volunteerID {
			continue
		}
		o := t.data.opportunities[s.OpportunityID]
		signups = append(signups, model.VolunteerSignup{
			SignupID:         s.ID,
			Status:           s.Status,
			SignedUpAt:       s.CreatedAt,
			OpportunityID:    o.ID,
			Title:            o.Title,
			Description:      o.Description,
			Location:         o.Location,
			StartDate:        o.StartDate,
			EndDate:          o.EndDate,
			OrganizationName: t.data.organizations[o.OrgID].Name,
		})
	}
	sort.Slice(signups, func(i, j int) bool {
		if signups[i].StartDate.Equal(signups[j].StartDate) {
			return signups[i].SignupID < signups[j].SignupID
		}
		return signups[i].StartDate.Before(signups[j].StartDate)
	})
	return signups, nil
}

func (t *memoryTx) ListAllSignups(ctx context.Context) ([]model.SignupDetail, error) {
	details := make([]model.SignupDetail, 0, len(t.data.signups))
	for _, s := range t.data.signups {
		details = append(details, model.SignupDetail{
			Signup:           s,
			VolunteerEmail:   t.data.users[s.VolunteerID].Email,
			OpportunityTitle: t.data.opportunities[s.OpportunityID].Title,
		})
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].CreatedAt.Equal(details[j].CreatedAt) {
			return details[i].ID < details[j].ID
		}
		return details[i].CreatedAt.After(details[j].CreatedAt)
	})
	return details, nil
}

// Activity

func (t *memoryTx) InsertActivity(ctx context.Context, activity *model.Activity) error {
	t.data.activity = append(t.data.activity, *activity)
	return nil
}

func (t *memoryTx) ListActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	entries := make([]model.Activity, 0, len(t.data.activity))
	// newest first; insertion order breaks timestamp ties
	for i := len(t.data.activity) - 1; i >= 0; i-- {
		entries = append(entries, t.data.activity[i])
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Standalone calls each run as their own short critical section

func (m *MemoryDB) InsertUser(ctx context.Context, user *model.User) error {
	return m.locked(func(tx *memoryTx) error { return tx.InsertUser(ctx, user) })
}

func (m *MemoryDB) GetUserByID(ctx context.Context, id string) (u *model.User, err error) {
	err = m.locked(func(tx *memoryTx) error { u, err = tx.GetUserByID(ctx, id); return err })
	return u, err
}

func (m *MemoryDB) GetUserByEmail(ctx context.Context, email string) (u *model.User, err error) {
	err = m.locked(func(tx *memoryTx) error { u, err = tx.GetUserByEmail(ctx, email); return err })
	return u, err
}

func (m *MemoryDB) GetOrganizationAdmin(ctx context.Context, orgID string) (u *model.User, err error) {
	err = m.locked(func(tx *memoryTx) error { u, err = tx.GetOrganizationAdmin(ctx, orgID); return err })
	return u, err
}

func (m *MemoryDB) SetUserEmailVerified(ctx context.Context, id string) error {
	return m.locked(func(tx *memoryTx) error { return tx.SetUserEmailVerified(ctx, id) })
}

func (m *MemoryDB) InsertOrganization(ctx context.Context, org *model.Organization) error {
	return m.locked(func(tx *memoryTx) error { return tx.InsertOrganization(ctx, org) })
}

func (m *MemoryDB) GetOrganization(ctx context.Context, id string) (o *model.Organization, err error) {
	err = m.locked(func(tx *memoryTx) error { o, err = tx.GetOrganization(ctx, id); return err })
	return o, err
}

func (m *MemoryDB) ListOrganizations(ctx context.Context) (orgs []model.Organization, err error) {
	err = m.locked(func(tx *memoryTx) error { orgs, err = tx.ListOrganizations(ctx); return err })
	return orgs, err
}

func (m *MemoryDB) UpdateOrganizationStatus(ctx context.Context, id string, status model.OrganizationStatus) error {
	return m.locked(func(tx *memoryTx) error { return tx.UpdateOrganizationStatus(ctx, id, status) })
}

func (m *MemoryDB) InsertOpportunity(ctx context.Context, opp *model.Opportunity) error {
	return m.locked(func(tx *memoryTx) error { return tx.InsertOpportunity(ctx, opp) })
}

func (m *MemoryDB) GetOpportunity(ctx context.Context, id string) (o *model.Opportunity, err error) {
	err = m.locked(func(tx *memoryTx) error { o, err = tx.GetOpportunity(ctx, id); return err })
	return o, err
}

func (m *MemoryDB) GetOpportunityForUpdate(ctx context.Context, id string) (*model.Opportunity, error) {
	return m.GetOpportunity(ctx, id)
}

func (m *MemoryDB) UpdateOpportunity(ctx context.Context, opp *model.Opportunity) error {
	return m.locked(func(tx *memoryTx) error { return tx.UpdateOpportunity(ctx, opp) })
}

func (m *MemoryDB) ListOpportunitiesByOrg(ctx context.Context, orgID string) (opps []model.Opportunity, err error) {
	err = m.locked(func(tx *memoryTx) error { opps, err = tx.ListOpportunitiesByOrg(ctx, orgID); return err })
	return opps, err
}

func (m *MemoryDB) ListPublishedOpportunities(ctx context.Context, filter model.OpportunityFilter) (l []model.OpportunityListing, err error) {
	err = m.locked(func(tx *memoryTx) error { l, err = tx.ListPublishedOpportunities(ctx, filter); return err })
	return l, err
}

func (m *MemoryDB) ListAllOpportunities(ctx context.Context) (l []model.OpportunityListing, err error) {
	err = m.locked(func(tx *memoryTx) error { l, err = tx.ListAllOpportunities(ctx); return err })
	return l, err
}

func (m *MemoryDB) InsertSignup(ctx context.Context, signup *model.Signup) error {
	return m.locked(func(tx *memoryTx) error { return tx.InsertSignup(ctx, signup) })
}

func (m *MemoryDB) GetSignup(ctx context.Context, id string) (s *model.Signup, err error) {
	err = m.locked(func(tx *memoryTx) error { s, err = tx.GetSignup(ctx, id); return err })
	return s, err
}

func (m *MemoryDB) GetSignupForUpdate(ctx context.Context, id string) (*model.Signup, error) {
	return m.GetSignup(ctx, id)
}

func (m *MemoryDB) HasActiveSignup(ctx context.Context, volunteerID, opportunityID string) (active bool, err error) {
	err = m.locked(func(tx *memoryTx) error { active, err = tx.HasActiveSignup(ctx, volunteerID, opportunityID); return err })
	return active, err
}

func (m *MemoryDB) UpdateSignupStatus(ctx context.Context, id string, from, to model.SignupStatus) error {
	return m.locked(func(tx *memoryTx) error { return tx.UpdateSignupStatus(ctx, id, from, to) })
}

func (m *MemoryDB) CountSlotHoldingSignups(ctx context.Context, opportunityID string) (n int, err error) {
	err = m.locked(func(tx *memoryTx) error { n, err = tx.CountSlotHoldingSignups(ctx, opportunityID); return err })
	return n, err
}

func (m *MemoryDB) ListRoster(ctx context.Context, opportunityID string) (r []model.RosterEntry, err error) {
	err = m.locked(func(tx *memoryTx) error { r, err = tx.ListRoster(ctx, opportunityID); return err })
	return r, err
}

func (m *MemoryDB) ListVolunteerSignups(ctx context.Context, volunteerID string) (s []model.VolunteerSignup, err error) {
	err = m.locked(func(tx *memoryTx) error { s, err = tx.ListVolunteerSignups(ctx, volunteerID); return err })
	return s, err
}

func (m *MemoryDB) ListAllSignups(ctx context.Context) (s []model.SignupDetail, err error) {
	err = m.locked(func(tx *memoryTx) error { s, err = tx.ListAllSignups(ctx); return err })
	return s, err
}

func (m *MemoryDB) InsertActivity(ctx context.Context, activity *model.Activity) error {
	return m.locked(func(tx *memoryTx) error { return tx.InsertActivity(ctx, activity) })
}

func (m *MemoryDB) ListActivity(ctx context.Context, limit int) (a []model.Activity, err error) {
	err = m.locked(func(tx *memoryTx) error { a, err = tx.ListActivity(ctx, limit); return err })
	return a, err
}
