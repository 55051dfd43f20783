package service_test

import (
	"strings"
	"testing"

	"quirk/model"
	"quirk/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	daos := newTestDAOs(db)
	auth := service.NewAuthService(daos.users)

	user, err := auth.Register("Alice", "alice", "alice@test.local", "secret123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "expected a bcrypt hash")

	logged, err := auth.Login("alice@test.local", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	// 密码错与邮箱不存在必须是同一个错误
	_, err = auth.Login("alice@test.local", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = auth.Login("nobody@test.local", "secret123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterDuplicateCreatesNothing(t *testing.T) {
	db := setupTestDB(t)
	daos := newTestDAOs(db)
	auth := service.NewAuthService(daos.users)

	_, err := auth.Register("Alice", "alice", "alice@test.local", "secret123")
	require.NoError(t, err)

	// 相同用户名
	_, err = auth.Register("Other", "alice", "other@test.local", "secret123")
	assert.ErrorIs(t, err, service.ErrUserExists)

	// 相同邮箱
	_, err = auth.Register("Other", "other", "alice@test.local", "secret123")
	assert.ErrorIs(t, err, service.ErrUserExists)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginWithOAuthProvisionsVerifiedUser(t *testing.T) {
	db := setupTestDB(t)
	daos := newTestDAOs(db)
	auth := service.NewAuthService(daos.users)

	user, err := auth.LoginWithOAuth(service.OAuthProfile{
		Provider:    "google",
		ProviderID:  "g-123",
		DisplayName: "Bob Builder",
		Email:       "bob@gmail.test",
		Avatar:      "https://img.test/bob.png",
	})
	require.NoError(t, err)
	assert.True(t, user.IsVerified)
	assert.Empty(t, user.Password)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-123", *user.GoogleID)
	assert.Equal(t, "bob_builder", user.Username)

	// 二次登录命中同一账号
	again, err := auth.LoginWithOAuth(service.OAuthProfile{
		Provider:   "google",
		ProviderID: "g-123",
		Email:      "bob@gmail.test",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginWithOAuthMergesByEmail(t *testing.T) {
	db := setupTestDB(t)
	daos := newTestDAOs(db)
	auth := service.NewAuthService(daos.users)

	local, err := auth.Register("Carol", "carol", "carol@test.local", "secret123")
	require.NoError(t, err)

	merged, err := auth.LoginWithOAuth(service.OAuthProfile{
		Provider:   "github",
		ProviderID: "gh-77",
		Username:   "carol-gh",
		Email:      "carol@test.local",
	})
	require.NoError(t, err)
	assert.Equal(t, local.ID, merged.ID, "oauth login with known email must merge, not duplicate")
}

func TestLoginWithOAuthSyntheticEmail(t *testing.T) {
	db := setupTestDB(t)
	daos := newTestDAOs(db)
	auth := service.NewAuthService(daos.users)

	user, err := auth.LoginWithOAuth(service.OAuthProfile{
		Provider:   "github",
		ProviderID: "42",
		Username:   "ghosty",
	})
	require.NoError(t, err)
	assert.Equal(t, "github_42@users.quirk.local", user.Email)
	assert.Equal(t, "ghosty", user.Username)
}
