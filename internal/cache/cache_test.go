package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"designhub-backend/internal/cache"
	"designhub-backend/internal/localstore"
	"designhub-backend/internal/models"
)

func TestStore_OrdersRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := cache.New(localstore.NewMemoryStore())

	orders, ok, err := store.Orders(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, orders)

	want := []models.Order{
		{ID: "o2", ClientName: "Karim", Status: models.StatusInProgress, CreatedAt: 200},
		{ID: "o1", ClientName: "Rahim", Status: models.StatusPending, CreatedAt: 100},
	}
	require.NoError(t, store.SetOrders(ctx, want))

	got, ok, err := store.Orders(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStore_MalformedJSONIsAbsent(t *testing.T) {
	ctx := context.Background()
	blobs := localstore.NewMemoryStore()
	require.NoError(t, blobs.Set(ctx, cache.ProjectsKey, []byte(`[{"id": `)))

	projects, ok, err := cache.New(blobs).Projects(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, projects)
}

func TestStore_QuotaFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	store := cache.New(localstore.WithQuota(localstore.NewMemoryStore(), 200))

	small := []models.Project{{ID: "p1", Name: "Small"}}
	require.NoError(t, store.SetProjects(ctx, small))

	big := []models.Project{{ID: "p2", Name: "Big", ImageURL: string(make([]byte, 500))}}
	err := store.SetProjects(ctx, big)
	assert.ErrorIs(t, err, cache.ErrSaveFailed)
	assert.ErrorIs(t, err, localstore.ErrQuotaExceeded)

	got, ok, err := store.Projects(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, small, got)
}

func TestStore_NilCollectionsStoredAsEmptyArrays(t *testing.T) {
	ctx := context.Background()
	blobs := localstore.NewMemoryStore()
	store := cache.New(blobs)

	require.NoError(t, store.SetOrders(ctx, nil))
	raw, err := blobs.Get(ctx, cache.OrdersKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestStore_AdminFlag(t *testing.T) {
	ctx := context.Background()
	blobs := localstore.NewMemoryStore()
	store := cache.New(blobs)

	ok, err := store.AdminAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetAdminAuthenticated(ctx))
	raw, err := blobs.Get(ctx, cache.AdminAuthKey)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))

	ok, err = store.AdminAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.ClearAdminAuthenticated(ctx))
	ok, err = store.AdminAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
