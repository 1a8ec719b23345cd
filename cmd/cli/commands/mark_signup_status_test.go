package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func TestMarkSignupStatusCmd_UnknownSignup(t *testing.T) {
	app := newTestApp(t)
	err := run(MarkSignupStatusCmd(app), "missing-signup", "registered")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
