package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	user := &model.User{ID: "user-1", Email: "org@example.com", Role: model.RoleOrgAdmin, OrgID: "org-1"}

	token, expiry, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	claims, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, model.RoleOrgAdmin, claims.Role)
	assert.Equal(t, "org-1", claims.OrgID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	verify, err := svc.IssueVerificationToken("user-1")
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(verify)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	claims, err := svc.ParseVerificationToken(verify)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Minute)
	issued := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, _, err := svc.IssueAccessToken(&model.User{ID: "user-1", Role: model.RoleVolunteer})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.ErrorContains(t, err, "expired")
}

func TestWrongSecret(t *testing.T) {
	token, _, err := NewTokenService("secret-a", time.Hour).IssueAccessToken(&model.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).ParseAccessToken(token)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = NewTokenService("secret-a", time.Hour).ParseAccessToken("not-a-token")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse"))
	assert.ErrorIs(t, CheckPassword(hash, "battery staple"), model.ErrUnauthenticated)
}
