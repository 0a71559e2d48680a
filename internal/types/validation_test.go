package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(s string) func() time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestValidator_ValidateNew(t *testing.T) {
	v := NewValidator(fixedClock("2024-06-01T12:00:00Z"))

	tests := []struct {
		name       string
		input      NewApplication
		wantFields []string
	}{
		{
			name:  "minimal",
			input: NewApplication{Company: "Acme", Position: "Engineer"},
		},
		{
			name:  "full",
			input: NewApplication{Company: "Acme", Position: "Engineer", Status: StatusOffer, DateApplied: MustParseDate("2024-06-01")},
		},
		{
			name:       "blank company",
			input:      NewApplication{Company: "   ", Position: "Engineer"},
			wantFields: []string{"company"},
		},
		{
			name:       "blank both",
			input:      NewApplication{},
			wantFields: []string{"company", "position"},
		},
		{
			name:       "future date",
			input:      NewApplication{Company: "Acme", Position: "Engineer", DateApplied: MustParseDate("2024-06-02")},
			wantFields: []string{"dateApplied"},
		},
		{
			name:       "unknown status",
			input:      NewApplication{Company: "Acme", Position: "Engineer", Status: "ghosted"},
			wantFields: []string{"status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateNew(tt.input)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			var fields []string
			for _, fe := range ve.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidator_ValidatePatch(t *testing.T) {
	v := NewValidator(fixedClock("2024-06-01T12:00:00Z"))
	future := MustParseDate("2025-01-01")
	bad := Status("nope")

	assert.NoError(t, v.ValidatePatch(ApplicationPatch{}))
	assert.NoError(t, v.ValidatePatch(StatusPatch(StatusRejected)))
	assert.NoError(t, v.ValidatePatch(ApplicationPatch{Notes: strPtr("")}))

	err := v.ValidatePatch(ApplicationPatch{Company: strPtr(" ")})
	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "is required", ve.Message("company"))

	err = v.ValidatePatch(ApplicationPatch{DateApplied: &future, Status: &bad})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "must not be in the future", ve.Message("dateApplied"))
	assert.Contains(t, ve.Message("status"), "must be one of applied")
	assert.Contains(t, err.Error(), "validation failed: ")
}

func TestIsValidationError(t *testing.T) {
	err := NewApplication{}.Validate()
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("boom")))
}
