package viewmodel

import (
	"github.com/jonathan/job-tracker/internal/types"
)

// RecentWindowDays is how far back an application counts as recent.
const RecentWindowDays = 30

// Stats summarizes a collection for the dashboard.
type Stats struct {
	Total int
	// Active applications have not reached offer, rejection or withdrawal.
	Active int
	// Pending applications are still at the first status.
	Pending int
	// Interviewing covers every interview stage.
	Interviewing int
	Offers       int
	Rejected     int
	Withdrawn    int
	Recent       int
	// SuccessRate is offers over non-pending applications, in percent.
	SuccessRate float64
	// InterviewRate is interviewing plus offers over total, in percent.
	InterviewRate float64
	Counts        Counts
}

// ComputeStats summarizes apps as of today.
func ComputeStats(apps []types.Application, today types.Date) Stats {
	st := Stats{Total: len(apps), Counts: CountByStatus(apps)}
	cutoff := types.DateOf(today.Time().AddDate(0, 0, -RecentWindowDays))

	for _, a := range apps {
		if !a.Status.IsClosed() {
			st.Active++
		}
		switch a.Status {
		case types.StatusApplied:
			st.Pending++
		case types.StatusInterviewing, types.StatusTechnical, types.StatusFinalRound:
			st.Interviewing++
		case types.StatusOffer:
			st.Offers++
		case types.StatusRejected:
			st.Rejected++
		case types.StatusWithdrawn:
			st.Withdrawn++
		}
		if !a.DateApplied.IsZero() && a.DateApplied.Compare(cutoff) >= 0 {
			st.Recent++
		}
	}

	if nonPending := st.Total - st.Pending; nonPending > 0 {
		st.SuccessRate = float64(st.Offers) / float64(nonPending) * 100
	}
	if st.Total > 0 {
		st.InterviewRate = float64(st.Interviewing+st.Offers) / float64(st.Total) * 100
	}
	return st
}
