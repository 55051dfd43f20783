package model

import "time"

// Follow 关注关系，(follower, following) 组合唯一，同一目标不能关注两次。
// 自关注在 service 层拦截，不靠 schema。
type Follow struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	FollowerID  uint64    `gorm:"not null;uniqueIndex:idx_follower_following" json:"followerId"`
	FollowingID uint64    `gorm:"not null;uniqueIndex:idx_follower_following" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}
