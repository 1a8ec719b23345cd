package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var header = []string{"Email", "Status", "Signed Up At"}

func TestMergeRoster_NewTab(t *testing.T) {
	rows := [][]string{header, {"a@example.com", "registered", "2031-05-01T10:00:00Z"}}

	got := mergeRoster(nil, rows)

	assert.Equal(t, [][]interface{}{
		{"Email", "Status", "Signed Up At"},
		{"a@example.com", "registered", "2031-05-01T10:00:00Z"},
	}, got)
}

func TestMergeRoster_KeepsOrganizerColumns(t *testing.T) {
	existing := [][]interface{}{
		{"Email", "Status", "Signed Up At", "Notes", "Shirt"},
		{"a@example.com", "registered", "2031-05-01T10:00:00Z", "bringing van", "L"},
		{"gone@example.com", "registered", "2031-05-01T11:00:00Z", "left early"},
		{"b@example.com", "registered", "2031-05-02T10:00:00Z"},
	}
	rows := [][]string{
		header,
		{"a@example.com", "completed", "2031-05-01T10:00:00Z"},
		{"b@example.com", "cancelled", "2031-05-02T10:00:00Z"},
		{"c@example.com", "registered", "2031-05-03T10:00:00Z"},
	}

	got := mergeRoster(existing, rows)

	assert.Equal(t, [][]interface{}{
		{"Email", "Status", "Signed Up At", "Notes", "Shirt"},
		{"a@example.com", "completed", "2031-05-01T10:00:00Z", "bringing van", "L"},
		{"b@example.com", "cancelled", "2031-05-02T10:00:00Z"},
		{"c@example.com", "registered", "2031-05-03T10:00:00Z"},
	}, got)
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'2031-05-04 Beach clean'!A1:ZZ", a1Range("2031-05-04 Beach clean", "A1:ZZ"))
	assert.Equal(t, "'Saint John''s'!A1", a1Range("Saint John's", "A1"))
}
