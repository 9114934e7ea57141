package repomanager

import (
	"context"

	"github.com/dmitrijs2005/accounts/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps both stores in process memory. The profile
// store checks user existence through the user store, and user deletion
// removes the dependent profile via a delete hook.
type MemoryRepositoryManager struct {
	users    *users.MemoryRepository
	profiles *profiles.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	u := users.NewMemoryRepository()
	p := profiles.NewMemoryRepository(u)
	u.OnDelete(p.DeleteByUserID)

	return &MemoryRepositoryManager{users: u, profiles: p}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Profiles() profiles.Repository {
	return m.profiles
}

func (m *MemoryRepositoryManager) Close() error {
	return nil
}
