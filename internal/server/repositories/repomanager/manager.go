// Package repomanager builds the matched pair of user and profile stores for
// a storage driver and owns their lifecycle.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/users"
)

// Storage drivers understood by New.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Users() users.Repository
	Profiles() profiles.Repository
	Close() error
}

// New returns the manager for the given driver. dsn is ignored by the memory
// driver.
func New(ctx context.Context, driver, dsn string) (RepositoryManager, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryRepositoryManager(), nil
	case DriverPostgres:
		return NewPostgresRepositoryManager(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
