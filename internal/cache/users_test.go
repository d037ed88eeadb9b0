package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/anonto42/nano-midea/social-api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*UsersCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewUsersCache(client, time.Minute), server
}

func TestUsersCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	require.NoError(t, c.SetUsers(ctx, []models.UserCompact{
		{ID: 1, Username: "alice"},
		{ID: 2, Username: "bob"},
	}))

	found, err := c.GetUsers(ctx, []uint{1, 2, 3})
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "alice", found[1].Username)
	assert.Equal(t, "bob", found[2].Username)
	_, ok := found[3]
	assert.False(t, ok)
}

func TestUsersCache_Expiration(t *testing.T) {
	ctx := context.Background()
	c, server := newTestCache(t)

	require.NoError(t, c.SetUsers(ctx, []models.UserCompact{{ID: 7, Username: "carol"}}))
	server.FastForward(2 * time.Minute)

	found, err := c.GetUsers(ctx, []uint{7})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUsersCache_DeleteAndCorruptEntries(t *testing.T) {
	ctx := context.Background()
	c, server := newTestCache(t)

	require.NoError(t, c.SetUsers(ctx, []models.UserCompact{{ID: 1, Username: "alice"}}))
	require.NoError(t, server.Set(userKey(2), "not json"))
	require.NoError(t, c.DeleteUser(ctx, 1))

	found, err := c.GetUsers(ctx, []uint{1, 2})
	require.NoError(t, err)
	assert.Empty(t, found)
}
