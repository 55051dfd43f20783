package model

import "time"

// Like 点赞记录，(user, tweet) 组合唯一，保证每人每条推文至多点赞一次。
type Like struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_user_tweet" json:"userId"`
	TweetID   uint64    `gorm:"not null;uniqueIndex:idx_user_tweet" json:"tweetId"`
	CreatedAt time.Time `json:"createdAt"`
}
