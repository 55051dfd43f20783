package service_test

import (
	"testing"

	"quirk/model"
	"quirk/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowSelfRejected(t *testing.T) {
	db := setupTestDB(t)
	daos := newTestDAOs(db)
	users := service.NewUserService(daos.users, daos.follows)
	a := seedUser(t, db, "a")

	err := users.Follow(a.ID, a.ID)
	assert.ErrorIs(t, err, service.ErrSelfFollow)
}

func TestFollowLifecycleAndCounters(t *testing.T) {
	db := setupTestDB(t)
	daos := newTestDAOs(db)
	users := service.NewUserService(daos.users, daos.follows)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	require.NoError(t, users.Follow(a.ID, b.ID))

	var fa, fb model.User
	require.NoError(t, db.First(&fa, a.ID).Error)
	require.NoError(t, db.First(&fb, b.ID).Error)
	assert.Equal(t, 1, fa.FollowingCount)
	assert.Equal(t, 0, fa.FollowersCount)
	assert.Equal(t, 1, fb.FollowersCount)
	assert.Equal(t, 0, fb.FollowingCount)

	// 同一条边不能关注两次
	err := users.Follow(a.ID, b.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyFollowing)

	var edges int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)

	require.NoError(t, users.Unfollow(a.ID, b.ID))
	require.NoError(t, db.First(&fa, a.ID).Error)
	require.NoError(t, db.First(&fb, b.ID).Error)
	assert.Equal(t, 0, fa.FollowingCount)
	assert.Equal(t, 0, fb.FollowersCount)

	// 没有边可删
	err = users.Unfollow(a.ID, b.ID)
	assert.ErrorIs(t, err, service.ErrNotFollowing)
}

func TestGetProfile(t *testing.T) {
	db := setupTestDB(t)
	daos := newTestDAOs(db)
	users := service.NewUserService(daos.users, daos.follows)
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	b.CoverPhoto = "https://img.test/cover.png"
	require.NoError(t, db.Save(b).Error)

	_, _, err := users.GetProfile("ghost", a.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	profile, isFollowing, err := users.GetProfile("b", a.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)
	assert.Equal(t, "b", profile.Username)
	assert.Equal(t, "https://img.test/cover.png", profile.Banner)
	assert.Equal(t, "Hello! I'm b", profile.Bio, "empty bio gets the display-name default")

	require.NoError(t, users.Follow(a.ID, b.ID))
	profile, isFollowing, err = users.GetProfile("b", a.ID)
	require.NoError(t, err)
	assert.True(t, isFollowing)
	assert.Equal(t, 1, profile.FollowersCount)
}
