package service

import (
	"strings"
	"testing"

	"quirk/dao"
	"quirk/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestSanitizeUsername(t *testing.T) {
	cases := []struct {
		seed string
		want string
	}{
		{"Alice", "alice"},
		{"José Müller", "jose_muller"},
		{"--Hello  World!!", "hello_world"},
		{"bob.builder@", "bob_builder"},
		{"___", "user"},
		{"", "user"},
		{"42cats", "42cats"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, sanitizeUsername(tc.seed), "seed %q", tc.seed)
	}
}

func TestGenerateUniqueUsernameFallsBackOnCollision(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	svc := NewAuthService(dao.NewUserDAO(db))

	// 占住 base
	require.NoError(t, db.Create(&model.User{
		Username: "dave", DisplayName: "Dave", Email: "dave@test.local", Password: "x",
	}).Error)

	name, err := svc.generateUniqueUsername("Dave")
	require.NoError(t, err)
	assert.NotEqual(t, "dave", name)
	assert.True(t, strings.HasPrefix(name, "dave"), "candidate %q must keep the base prefix", name)

	// 生成的名字立刻可用
	taken, err := dao.NewUserDAO(db).UsernameExists(name)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestGenerateUniqueUsernameUsesFreeBase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	svc := NewAuthService(dao.NewUserDAO(db))
	name, err := svc.generateUniqueUsername("Fresh Name")
	require.NoError(t, err)
	assert.Equal(t, "fresh_name", name)
}
