package seed

import (
	"context"
	"testing"

	"devconnector/internal/auth"
	"devconnector/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeeder(t *testing.T) {
	store := testutil.NewStore(t)
	s := NewSeeder(store, 42, bcrypt.MinCost)
	ctx := context.Background()

	users, err := s.SeedUsers(ctx, 6)
	require.NoError(t, err)
	require.Len(t, users, 6)
	assert.True(t, auth.CheckPassword(users[0].Password, Password))

	profiles, err := store.Profiles().List(ctx)
	require.NoError(t, err)
	assert.Len(t, profiles, 6)
	for _, p := range profiles {
		assert.NotEmpty(t, p.Status)
		assert.GreaterOrEqual(t, len(p.Skills), 2)
	}

	posts, err := s.SeedPosts(ctx, users, 10)
	require.NoError(t, err)
	require.Len(t, posts, 10)

	stored, err := store.Posts().List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 10)
	for _, p := range stored {
		seen := map[string]bool{}
		for _, l := range p.Likes {
			assert.False(t, seen[l.UserID], "duplicate like on %s", p.ID)
			seen[l.UserID] = true
		}
	}

	require.NoError(t, s.Clean(ctx))
	stored, err = store.Posts().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestSeedPosts_NoUsers(t *testing.T) {
	s := NewSeeder(testutil.NewStore(t), 1, bcrypt.MinCost)
	posts, err := s.SeedPosts(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
