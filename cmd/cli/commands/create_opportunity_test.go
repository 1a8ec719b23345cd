package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/voluntarios/pkg/core/model"
)

func TestParseWhen(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"rfc3339", "2031-05-04T09:30:00Z", time.Date(2031, 5, 4, 9, 30, 0, 0, time.UTC), false},
		{"rfc3339 with offset", "2031-05-04T10:30:00+01:00", time.Date(2031, 5, 4, 9, 30, 0, 0, time.UTC), false},
		{"local layout", "2031-05-04 09:30", time.Date(2031, 5, 4, 9, 30, 0, 0, time.Local), false},
		{"date only", "2031-05-04", time.Time{}, true},
		{"garbage", "next saturday", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWhen(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestSlotsSummary(t *testing.T) {
	assert.Equal(t, "3/5 left", slotsSummary(model.Opportunity{RemainingSlots: 3, TotalSlots: 5}))
	assert.Equal(t, "0/1 left", slotsSummary(model.Opportunity{RemainingSlots: 0, TotalSlots: 1}))
}
