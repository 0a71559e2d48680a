// Package viewmodel derives the presentation-ready list of applications:
// search and status filtering, sorting, per-status counts and pagination.
package viewmodel

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/job-tracker/internal/types"
)

// SortField names the column the list is ordered by.
type SortField string

const (
	SortCompany     SortField = "company"
	SortPosition    SortField = "position"
	SortDateApplied SortField = "dateApplied"
	SortStatus      SortField = "status"
)

// ParseSortField accepts the field name, case-insensitively, plus "date".
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "company":
		return SortCompany, nil
	case "position":
		return SortPosition, nil
	case "dateapplied", "date", "date_applied":
		return SortDateApplied, nil
	case "status":
		return SortStatus, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// SortOrder is ascending or descending.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == Descending {
		return Ascending
	}
	return Descending
}

// Query is the filter and sort state of the list.
type Query struct {
	Search string
	// Status restricts the list to one status; empty means all.
	Status    types.Status
	SortField SortField
	SortOrder SortOrder
}

// DefaultQuery shows everything, most recent application first.
func DefaultQuery() Query {
	return Query{SortField: SortDateApplied, SortOrder: Descending}
}

// Derive filters and sorts apps according to q. The input is not modified.
func Derive(apps []types.Application, q Query) []types.Application {
	out := FilterStatus(Search(apps, q.Search), q.Status)
	return Sort(out, q.SortField, q.SortOrder)
}

// Search keeps records whose company, position or notes contain query,
// case-insensitively. The query is matched as given, surrounding spaces
// included; only the empty query keeps everything.
func Search(apps []types.Application, query string) []types.Application {
	needle := strings.ToLower(query)
	out := make([]types.Application, 0, len(apps))
	for _, a := range apps {
		if needle == "" ||
			strings.Contains(strings.ToLower(a.Company), needle) ||
			strings.Contains(strings.ToLower(a.Position), needle) ||
			strings.Contains(strings.ToLower(a.Notes), needle) {
			out = append(out, a)
		}
	}
	return out
}

// FilterStatus keeps records with status s. An empty s keeps everything.
func FilterStatus(apps []types.Application, s types.Status) []types.Application {
	out := make([]types.Application, 0, len(apps))
	for _, a := range apps {
		if s == "" || a.Status == s {
			out = append(out, a)
		}
	}
	return out
}

// Sort returns a sorted copy. Ascending order is stable; descending is the
// exact reverse of ascending, so toggling the order twice is a round trip.
// An empty field leaves the input order.
func Sort(apps []types.Application, field SortField, order SortOrder) []types.Application {
	out := slices.Clone(apps)
	if out == nil {
		out = []types.Application{}
	}
	cmp := comparator(field)
	if cmp == nil {
		return out
	}
	slices.SortStableFunc(out, cmp)
	if order == Descending {
		slices.Reverse(out)
	}
	return out
}

func comparator(field SortField) func(a, b types.Application) int {
	switch field {
	case SortCompany:
		return func(a, b types.Application) int {
			return strings.Compare(strings.ToLower(a.Company), strings.ToLower(b.Company))
		}
	case SortPosition:
		return func(a, b types.Application) int {
			return strings.Compare(strings.ToLower(a.Position), strings.ToLower(b.Position))
		}
	case SortDateApplied:
		return func(a, b types.Application) int {
			return a.DateApplied.Compare(b.DateApplied)
		}
	case SortStatus:
		// taxonomy order, not alphabetical
		return func(a, b types.Application) int {
			return a.Status.Rank() - b.Status.Rank()
		}
	default:
		return nil
	}
}

// Counts is the per-status badge data, always computed from the unfiltered
// set.
type Counts struct {
	All      int
	ByStatus map[types.Status]int
}

// CountByStatus tallies apps per status. Every taxonomy member is present.
func CountByStatus(apps []types.Application) Counts {
	c := Counts{All: len(apps), ByStatus: make(map[types.Status]int, len(types.Statuses()))}
	for _, s := range types.Statuses() {
		c.ByStatus[s] = 0
	}
	for _, a := range apps {
		c.ByStatus[a.Status]++
	}
	return c
}
