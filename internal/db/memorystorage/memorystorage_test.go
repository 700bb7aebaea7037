package memorystorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/slidr/internal/db/storage"
	"github.com/patric-chuzhbe/slidr/internal/models"
)

var _ storage.Storage = (*MemoryStorage)(nil)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	theStorage, err := New()
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, theStorage.Close())
	}()

	require.NoError(t, theStorage.Ping(ctx))

	usr, err := theStorage.SaveUser(ctx, &models.User{FirstName: "Ada", LastName: "Lovelace", Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), usr.ID)

	project, err := theStorage.SaveProject(ctx, &models.Project{Title: "Deck", Content: "{}", User: usr})
	require.NoError(t, err)
	assert.Equal(t, int64(1), project.ID)

	users, err := theStorage.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)
}
