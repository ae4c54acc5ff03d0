package store

import (
	"context"
	"testing"

	"immo/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowUnfollowRefollow(t *testing.T) {
	db, s, _ := newTestStores(t)
	a := seedProfile(t, db, "Alice", models.RoleClient)
	b := seedProfile(t, db, "Bruno", models.RoleCourtier)
	ctx := as(a)

	_, err := s.Follows.Follow(ctx, b.ID)
	require.NoError(t, err)
	ok, err := s.Follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Follows.Unfollow(ctx, b.ID))
	ok, err = s.Follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Follows.Follow(ctx, b.ID)
	require.NoError(t, err)
	count, err := s.Follows.FollowerCount(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFollowRequiresSession(t *testing.T) {
	db, s, _ := newTestStores(t)
	b := seedProfile(t, db, "Bruno", models.RoleCourtier)

	_, err := s.Follows.Follow(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, s.Follows.Unfollow(context.Background(), b.ID), ErrNotAuthenticated)
}

func TestFollowTwiceIsConflict(t *testing.T) {
	db, s, _ := newTestStores(t)
	a := seedProfile(t, db, "Alice", models.RoleClient)
	b := seedProfile(t, db, "Bruno", models.RoleCourtier)

	_, err := s.Follows.Follow(as(a), b.ID)
	require.NoError(t, err)
	_, err = s.Follows.Follow(as(a), b.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
	assert.True(t, IsConflict(err))
}

func TestSelfFollowRejected(t *testing.T) {
	db, s, _ := newTestStores(t)
	a := seedProfile(t, db, "Alice", models.RoleClient)

	_, err := s.Follows.Follow(as(a), a.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestUnfollowMissingEdgeIsNoop(t *testing.T) {
	db, s, _ := newTestStores(t)
	a := seedProfile(t, db, "Alice", models.RoleClient)
	b := seedProfile(t, db, "Bruno", models.RoleCourtier)

	assert.NoError(t, s.Follows.Unfollow(as(a), b.ID))
}

func TestMutualFollowMatchesBothDirections(t *testing.T) {
	cases := []struct {
		name         string
		aFollowsB    bool
		bFollowsA    bool
		expectMutual bool
	}{
		{"none", false, false, false},
		{"only a", true, false, false},
		{"only b", false, true, false},
		{"both", true, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, s, _ := newTestStores(t)
			a := seedProfile(t, db, "Alice", models.RoleClient)
			b := seedProfile(t, db, "Bruno", models.RoleCourtier)
			if tc.aFollowsB {
				_, err := s.Follows.Follow(as(a), b.ID)
				require.NoError(t, err)
			}
			if tc.bFollowsA {
				_, err := s.Follows.Follow(as(b), a.ID)
				require.NoError(t, err)
			}

			m, err := s.Follows.MutualFollow(context.Background(), a.ID, b.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.aFollowsB, m.IFollow)
			assert.Equal(t, tc.bFollowsA, m.TheyFollow)
			assert.Equal(t, tc.expectMutual, m.Mutual)
		})
	}
}

func TestFollowCreatesNotification(t *testing.T) {
	db, s, rec := newTestStores(t)
	a := seedProfile(t, db, "Alice", models.RoleClient)
	b := seedProfile(t, db, "Bruno", models.RoleCourtier)

	_, err := s.Follows.Follow(as(a), b.ID)
	require.NoError(t, err)

	list, err := s.Notifications.List(context.Background(), b.ID, NotificationFilter{Type: models.NotificationFollow})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Sender)
	assert.Equal(t, a.ID, list[0].Sender.ID)
	assert.Equal(t, 1, rec.count(b.ID))
}

func TestFollowersAndFollowing(t *testing.T) {
	db, s, _ := newTestStores(t)
	a := seedProfile(t, db, "Alice", models.RoleClient)
	b := seedProfile(t, db, "Bruno", models.RoleCourtier)
	c := seedProfile(t, db, "Chloe", models.RoleClient)

	_, err := s.Follows.Follow(as(a), b.ID)
	require.NoError(t, err)
	_, err = s.Follows.Follow(as(c), b.ID)
	require.NoError(t, err)

	followers, err := s.Follows.Followers(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := s.Follows.Following(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, b.ID, following[0].ID)

	n, err := s.Follows.FollowingCount(context.Background(), a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
