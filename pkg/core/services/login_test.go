package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/auth"
	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	tokens := auth.NewTokenService("test-secret", time.Hour)
	_, err := EnsureSuperAdmin(f.ctx, f.db, f.logger, Credentials{Email: "root@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = Login(f.ctx, f.db, tokens, f.logger, Credentials{Email: "root@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = Login(f.ctx, f.db, tokens, f.logger, Credentials{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = Login(f.ctx, f.db, tokens, f.logger, Credentials{})
	assert.ErrorIs(t, err, model.ErrValidation)
}
