// Package store persists job applications, either as one JSON blob in a
// keyed backend (LocalStore) or through a remote paged REST collection
// (RemoteStore).
package store

import (
	"context"

	"github.com/jonathan/job-tracker/internal/types"
)

// Store is the mutation contract shared by both backings.
type Store interface {
	// Create assigns an id and timestamps. Blank company or position fails
	// with *types.ValidationError.
	Create(ctx context.Context, f types.NewApplication) (types.Application, error)
	// Update merges the fields present in p. Unknown ids fail with *ErrNotFound.
	Update(ctx context.Context, id types.ID, p types.ApplicationPatch) (types.Application, error)
	// Delete reports whether a record existed and was removed. A missing id
	// is not an error.
	Delete(ctx context.Context, id types.ID) (bool, error)
}

// Lister returns the full collection.
type Lister interface {
	ListAll(ctx context.Context) ([]types.Application, error)
}

// Pager returns one page of the collection.
type Pager interface {
	ListPage(ctx context.Context, offset, limit int) (types.PagedResult, error)
}

// PersistenceReporter is implemented by stores that swallow write failures.
// TakePersistError returns the most recent swallowed failure once, then nil.
type PersistenceReporter interface {
	TakePersistError() error
}

// Seed returns the sample records served when nothing has been stored yet.
func Seed() []types.Application {
	return []types.Application{
		{
			ID:          "1",
			Company:     "Google",
			Position:    "Software Engineer",
			Status:      types.StatusInterviewing,
			DateApplied: types.MustParseDate("2024-01-15"),
			Notes:       "Applied through referral",
		},
		{
			ID:          "2",
			Company:     "Microsoft",
			Position:    "Frontend Developer",
			Status:      types.StatusApplied,
			DateApplied: types.MustParseDate("2024-01-10"),
			Notes:       "Found on LinkedIn",
		},
		{
			ID:          "3",
			Company:     "Apple",
			Position:    "Full Stack Developer",
			Status:      types.StatusTechnical,
			DateApplied: types.MustParseDate("2024-01-08"),
			Notes:       "Company website application",
		},
	}
}

func clone(apps []types.Application) []types.Application {
	if apps == nil {
		return nil
	}
	return append([]types.Application(nil), apps...)
}

func indexOf(apps []types.Application, id types.ID) int {
	for i, a := range apps {
		if a.ID == id {
			return i
		}
	}
	return -1
}
