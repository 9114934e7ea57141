package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Drivers(t *testing.T) {
	m, err := New(context.Background(), DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepositoryManager{}, m)

	m, err = New(context.Background(), "", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepositoryManager{}, m)

	_, err = New(context.Background(), "mongo", "")
	assert.Error(t, err)
}

func TestMemoryManager_UserDeleteCascadesToProfile(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryRepositoryManager()
	require.NoError(t, m.RunMigrations(ctx))
	require.NoError(t, m.Ping(ctx))
	defer m.Close()

	u, err := m.Users().Create(ctx, &models.User{
		Name: "Ana", Email: "ana@example.com", Phone: "+15550000001", MembershipTier: models.TierFree,
	})
	require.NoError(t, err)

	p, err := m.Profiles().Create(ctx, &models.Profile{UserID: u.ID, Username: "ana_style"})
	require.NoError(t, err)

	require.NoError(t, m.Users().Delete(ctx, u.ID))

	_, err = m.Profiles().Get(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = m.Profiles().Create(ctx, &models.Profile{UserID: u.ID, Username: "ana_again"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
