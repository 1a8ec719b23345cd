package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
	"github.com/jakechorley/voluntarios/pkg/notify"
)

// recordingNotifier implements notify.Notifier for tests
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recordingNotifier) Notify(ctx context.Context, msg notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingNotifier) sent() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

type fixture struct {
	t        *testing.T
	ctx      context.Context
	db       *db.MemoryDB
	notifier *recordingNotifier
	logger   *zap.Logger
}

const (
	testOrgID      = "org-1"
	otherOrgID     = "org-2"
	testOrgAdminID = "admin-1"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		db:       db.NewMemoryDB(),
		notifier: &recordingNotifier{},
		logger:   zap.NewNop(),
	}

	for _, org := range []model.Organization{
		{ID: testOrgID, Name: "Food Bank", ContactEmail: "hello@foodbank.example", Status: model.OrganizationApproved},
		{ID: otherOrgID, Name: "Night Shelter", ContactEmail: "hello@shelter.example", Status: model.OrganizationApproved},
	} {
		require.NoError(t, f.db.InsertOrganization(f.ctx, &org))
	}
	require.NoError(t, f.db.InsertUser(f.ctx, &model.User{
		ID: testOrgAdminID, Email: "admin@foodbank.example", Role: model.RoleOrgAdmin, OrgID: testOrgID, EmailVerified: true,
	}))
	return f
}

func (f *fixture) volunteer(id string) string {
	f.t.Helper()
	require.NoError(f.t, f.db.InsertUser(f.ctx, &model.User{
		ID: id, Email: id + "@example.com", Role: model.RoleVolunteer, EmailVerified: true,
	}))
	return id
}

func (f *fixture) opportunityStarting(slots int, status model.OpportunityStatus, start time.Time) *model.Opportunity {
	f.t.Helper()
	opp := &model.Opportunity{
		ID:             uuid.New().String(),
		OrgID:          testOrgID,
		Title:          "Food sorting",
		Location:       "East Ham",
		StartDate:      start,
		EndDate:        start.Add(3 * time.Hour),
		TotalSlots:     slots,
		RemainingSlots: slots,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(f.t, f.db.InsertOpportunity(f.ctx, opp))
	return opp
}

func (f *fixture) opportunity(slots int, status model.OpportunityStatus) *model.Opportunity {
	return f.opportunityStarting(slots, status, time.Now().Add(7*24*time.Hour))
}

// ledger reloads an opportunity and checks remaining slots against the
// signups currently holding one
func (f *fixture) ledger(opportunityID string) *model.Opportunity {
	f.t.Helper()
	opp, err := f.db.GetOpportunity(f.ctx, opportunityID)
	require.NoError(f.t, err)

	held, err := f.db.CountSlotHoldingSignups(f.ctx, opportunityID)
	require.NoError(f.t, err)

	assert.GreaterOrEqual(f.t, opp.RemainingSlots, 0)
	assert.LessOrEqual(f.t, opp.RemainingSlots, opp.TotalSlots)
	assert.Equal(f.t, opp.TotalSlots-held, opp.RemainingSlots, "ledger out of step with signups")
	return opp
}

func (f *fixture) signUp(volunteerID, opportunityID string) (*model.Signup, error) {
	return SignUp(f.ctx, f.db, f.notifier, f.logger, volunteerID, opportunityID)
}

func (f *fixture) cancel(signupID, requesterID string) error {
	return CancelSignup(f.ctx, f.db, f.notifier, f.logger, signupID, requesterID)
}

// staleReads hands out signups as they were before the opportunity lock was
// taken, the way a concurrent transaction sees them under read committed.
type staleReads struct {
	*db.MemoryDB
	signups map[string]model.Signup
}

func (s staleReads) WithTx(ctx context.Context, fn func(tx db.Store) error) error {
	return s.MemoryDB.WithTx(ctx, func(tx db.Store) error {
		return fn(staleStore{Store: tx, signups: s.signups})
	})
}

type staleStore struct {
	db.Store
	signups map[string]model.Signup
}

func (s staleStore) GetSignup(ctx context.Context, id string) (*model.Signup, error) {
	if su, ok := s.signups[id]; ok {
		return &su, nil
	}
	return s.Store.GetSignup(ctx, id)
}
