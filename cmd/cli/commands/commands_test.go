package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/voluntarios/internal/config"
	"github.com/jakechorley/voluntarios/pkg/auth"
	"github.com/jakechorley/voluntarios/pkg/core/model"
	"github.com/jakechorley/voluntarios/pkg/db"
)

func newTestApp(t *testing.T) *AppContext {
	t.Helper()

	cfg, err := config.Parse([]byte(`
baseURL: http://localhost:3000
auth:
  jwtSecret: cli-test-secret-0000
admin:
  email: root@example.com
  password: password123
`))
	require.NoError(t, err)

	app := &AppContext{
		Env:      "test",
		Cfg:      cfg,
		Database: db.NewMemoryDB(),
		Tokens:   auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
	}
	t.Cleanup(app.Close)
	return app
}

func run(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.Execute()
}

func TestCLIFlow(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	require.NoError(t, run(SeedAdminCmd(app)))
	actorID := app.ActorID()
	require.NotEmpty(t, actorID)

	require.NoError(t, run(CreateOrganizationCmd(app), "Food Bank",
		"--contact-email", "hello@foodbank.example",
		"--admin-email", "admin@foodbank.example",
		"--admin-password", "password123",
		"--approve"))

	orgs, err := app.Database.ListOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, model.OrganizationApproved, orgs[0].Status)

	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Minute)
	require.NoError(t, run(CreateOpportunityCmd(app), "Food sorting",
		"--org", orgs[0].ID,
		"--location", "East Ham",
		"--start", start.Format(time.RFC3339),
		"--end", start.Add(2*time.Hour).Format(time.RFC3339),
		"--slots", "1",
		"--publish"))

	opps, err := app.Database.ListOpportunitiesByOrg(ctx, orgs[0].ID)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	opp := opps[0]
	assert.Equal(t, model.OpportunityPublished, opp.Status)

	for _, email := range []string{"first@example.com", "second@example.com"} {
		require.NoError(t, app.Database.InsertUser(ctx, &model.User{
			ID: email, Email: email, Role: model.RoleVolunteer, EmailVerified: true,
		}))
	}

	require.NoError(t, run(SignUpCmd(app), "first@example.com", opp.ID))
	err = run(SignUpCmd(app), "second@example.com", opp.ID)
	assert.ErrorIs(t, err, model.ErrCapacityExhausted)

	err = run(SignUpCmd(app), "admin@foodbank.example", opp.ID)
	assert.ErrorContains(t, err, "not a volunteer")

	roster, err := app.Database.ListRoster(ctx, opp.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)

	require.NoError(t, run(CancelSignupCmd(app), roster[0].SignupID))
	reopened, err := app.Database.GetOpportunity(ctx, opp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.RemainingSlots)
	assert.Equal(t, model.OpportunityPublished, reopened.Status)

	out := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, run(ExportRosterCmd(app), opp.ID, "--out", out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Email,Status,Signed Up At")
	assert.Contains(t, string(data), "first@example.com,cancelled,")

	activity, err := app.Database.ListActivity(ctx, 1)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, model.ActionExportRoster, activity[0].Action)
	assert.Equal(t, actorID, activity[0].UserID)
}
