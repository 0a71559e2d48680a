package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestApplication_JSONRoundTripShape(t *testing.T) {
	app := Application{
		ID:          "1",
		Company:     "Google",
		Position:    "Software Engineer",
		Status:      StatusInterviewing,
		DateApplied: MustParseDate("2024-01-15"),
		Notes:       "Applied through referral",
	}

	out, err := json.Marshal(app)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "1",
		"company": "Google",
		"position": "Software Engineer",
		"status": "interviewing",
		"dateApplied": "2024-01-15",
		"notes": "Applied through referral"
	}`, string(out))
}

func TestApplication_DecodeRemoteShape(t *testing.T) {
	payload := `{
		"id": 42,
		"company": "Acme",
		"position": "Engineer",
		"status": "Final Round",
		"dateApplied": "2024-02-01T00:00:00",
		"notes": null,
		"createdAt": "2024-02-01T10:00:00Z",
		"updatedAt": "2024-02-02T10:00:00Z"
	}`

	var app Application
	require.NoError(t, json.Unmarshal([]byte(payload), &app))
	assert.Equal(t, ID("42"), app.ID)
	assert.Equal(t, StatusFinalRound, app.Status)
	assert.Equal(t, "2024-02-01", app.DateApplied.String())
	assert.Empty(t, app.Notes)
	require.NotNil(t, app.CreatedAt)
	require.NotNil(t, app.UpdatedAt)
	assert.True(t, app.UpdatedAt.After(*app.CreatedAt))
}

func TestApplicationPatch_Apply(t *testing.T) {
	base := Application{
		ID:          "7",
		Company:     "Acme",
		Position:    "Engineer",
		Status:      StatusApplied,
		DateApplied: MustParseDate("2024-01-01"),
		Notes:       "first",
	}

	t.Run("status only", func(t *testing.T) {
		got := StatusPatch(StatusOffer).Apply(base)
		want := base
		want.Status = StatusOffer
		assert.Equal(t, want, got)
		assert.Equal(t, StatusApplied, base.Status, "input must not be modified")
	})

	t.Run("trims text fields", func(t *testing.T) {
		got := ApplicationPatch{Company: strPtr("  Globex "), Notes: strPtr(" later ")}.Apply(base)
		assert.Equal(t, "Globex", got.Company)
		assert.Equal(t, "later", got.Notes)
		assert.Equal(t, base.Position, got.Position)
	})

	t.Run("zero date ignored", func(t *testing.T) {
		got := ApplicationPatch{DateApplied: &Date{}}.Apply(base)
		assert.Equal(t, base.DateApplied, got.DateApplied)
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, ApplicationPatch{}.IsEmpty())
		assert.False(t, StatusPatch(StatusOffer).IsEmpty())
		assert.Equal(t, base, ApplicationPatch{}.Apply(base))
	})
}

func TestNewApplication_Normalize(t *testing.T) {
	f := NewApplication{Company: " Acme ", Position: "\tEngineer\n", Notes: " hi "}.Normalize()
	assert.Equal(t, "Acme", f.Company)
	assert.Equal(t, "Engineer", f.Position)
	assert.Equal(t, "hi", f.Notes)
}
