package service_test

import (
	"testing"
	"time"

	"quirk/dao"
	"quirk/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&model.User{}, &model.Tweet{}, &model.Follow{}, &model.Like{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

type testDAOs struct {
	users   *dao.UserDAO
	tweets  *dao.TweetDAO
	follows *dao.FollowDAO
	likes   *dao.LikeDAO
}

func newTestDAOs(db *gorm.DB) testDAOs {
	return testDAOs{
		users:   dao.NewUserDAO(db),
		tweets:  dao.NewTweetDAO(db),
		follows: dao.NewFollowDAO(db),
		likes:   dao.NewLikeDAO(db),
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@test.local",
		Password:    "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}
