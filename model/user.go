package model

import "time"

// User 用户模型
// Password 只对本地注册账号存在；OAuth 账号依赖 GoogleID / GitHubID。
type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Username       string    `gorm:"unique;not null;size:50" json:"username"`
	DisplayName    string    `gorm:"not null;size:100" json:"displayName"`
	Email          string    `gorm:"unique;not null;size:255" json:"email"`
	Password       string    `gorm:"size:255" json:"-"` // bcrypt 哈希，永不序列化
	Avatar         string    `gorm:"size:255" json:"avatar"`
	CoverPhoto     string    `gorm:"size:255" json:"coverPhoto,omitempty"`
	Bio            string    `gorm:"size:160" json:"bio,omitempty"`
	FollowersCount int       `gorm:"default:0" json:"followersCount"`
	FollowingCount int       `gorm:"default:0" json:"followingCount"`
	IsVerified     bool      `gorm:"default:false" json:"isVerified"`
	GoogleID       *string   `gorm:"uniqueIndex;size:64" json:"-"` // 指针列，NULL 不参与唯一约束
	GitHubID       *string   `gorm:"uniqueIndex;size:64" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UserSummary is the author projection embedded in feed responses:
// display name, username and avatar only.
type UserSummary struct {
	ID          uint64 `json:"id"`
	DisplayName string `json:"displayName"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
}

// TableName maps the projection onto the users table.
func (UserSummary) TableName() string {
	return "users"
}
