package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-tracker/internal/types"
)

func TestComputeStats(t *testing.T) {
	today := types.MustParseDate("2024-02-05")
	st := ComputeStats(fixture(), today)

	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 4, st.Active)
	assert.Equal(t, 2, st.Pending)
	assert.Equal(t, 2, st.Interviewing)
	assert.Equal(t, 1, st.Offers)
	assert.Equal(t, 1, st.Rejected)
	assert.Equal(t, 0, st.Withdrawn)
	// cutoff 2024-01-06: everything except nothing earlier
	assert.Equal(t, 6, st.Recent)
	assert.InDelta(t, 25.0, st.SuccessRate, 0.001)
	assert.InDelta(t, 50.0, st.InterviewRate, 0.001)
	assert.Equal(t, 6, st.Counts.All)
}

func TestComputeStats_RecentWindow(t *testing.T) {
	st := ComputeStats(fixture(), types.MustParseDate("2024-02-15"))
	// cutoff 2024-01-16: only 2024-01-20 and 2024-02-01
	assert.Equal(t, 2, st.Recent)
}

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil, types.MustParseDate("2024-01-01"))
	assert.Zero(t, st.Total)
	assert.Zero(t, st.SuccessRate)
	assert.Zero(t, st.InterviewRate)
}
