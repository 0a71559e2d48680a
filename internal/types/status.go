package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the stable identifier of a lifecycle stage. Identifiers are what
// gets stored and compared; labels are for display only.
//
// Lifecycle order:
//
//	applied ─► interviewing ─► technical ─► final_round ─► offer
//	                                                        rejected
//	                                                        withdrawn
type Status string

const (
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusTechnical    Status = "technical"
	StatusFinalRound   Status = "final_round"
	StatusOffer        Status = "offer"
	StatusRejected     Status = "rejected"
	StatusWithdrawn    Status = "withdrawn"
)

// DefaultStatus is assigned to new applications that do not specify one.
const DefaultStatus = StatusApplied

// taxonomy is ordered; the index of a status is its sort rank.
var taxonomy = []struct {
	status Status
	label  string
}{
	{StatusApplied, "Applied"},
	{StatusInterviewing, "Interviewing"},
	{StatusTechnical, "Technical"},
	{StatusFinalRound, "Final Round"},
	{StatusOffer, "Offer"},
	{StatusRejected, "Rejected"},
	{StatusWithdrawn, "Withdrawn"},
}

// Statuses returns the taxonomy in lifecycle order.
func Statuses() []Status {
	out := make([]Status, len(taxonomy))
	for i, t := range taxonomy {
		out[i] = t.status
	}
	return out
}

// ParseStatus converts a raw identifier to a Status. It is case-sensitive and
// does not accept labels; use ParseStatusOrLabel for display text.
func ParseStatus(s string) (Status, error) {
	for _, t := range taxonomy {
		if string(t.status) == s {
			return t.status, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// ParseStatusOrLabel accepts either an identifier ("final_round") or an exact
// display label ("Final Round").
func ParseStatusOrLabel(s string) (Status, error) {
	for _, t := range taxonomy {
		if string(t.status) == s || t.label == s {
			return t.status, nil
		}
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Valid reports whether s is a member of the taxonomy.
func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Rank is the position of s in the taxonomy, or -1 if s is not a member.
func (s Status) Rank() int {
	for i, t := range taxonomy {
		if t.status == s {
			return i
		}
	}
	return -1
}

// Label returns the display label, or the raw value for unknown statuses.
func (s Status) Label() string {
	for _, t := range taxonomy {
		if t.status == s {
			return t.label
		}
	}
	return string(s)
}

// IsClosed reports whether the application has left the active pipeline.
func (s Status) IsClosed() bool {
	return s == StatusOffer || s == StatusRejected || s == StatusWithdrawn
}

func (s Status) String() string { return string(s) }

// UnmarshalJSON accepts identifiers and labels and normalizes to the
// identifier. An empty string or null leaves the status unset.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("status must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseStatusOrLabel(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
