// Package blob provides keyed byte-blob storage: the "local storage" the
// tracker persists its whole collection into under a single key.
package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/job-tracker/internal/config"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("blob not found")

// Backend stores opaque values under string keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open builds the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		return NewFile(cfg.DataDir), nil
	case config.BackendSQLite, "":
		return OpenSQLite(ctx, cfg.ResolvedSQLitePath())
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("backend %q has no blob storage", cfg.Backend)
	}
}
