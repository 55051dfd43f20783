package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Media 推文附带的媒体项
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"` // image | video
}

// MediaList 以 JSON 列存储
type MediaList []Media

// Value implements driver.Valuer.
func (m MediaList) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *MediaList) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported media column type")
	}
}

// Tweet 推文模型
// ParentTweetID / OriginalTweetID 以及 retweet/reply/bookmark 计数只建模不实现，
// 没有任何端点会写它们。计数只通过点赞端点的原子更新变化。
type Tweet struct {
	ID              uint64       `gorm:"primarykey" json:"id"`
	AuthorID        uint64       `gorm:"not null;index" json:"authorId"`
	Text            string       `gorm:"size:280" json:"text"` // 空文本仅保留给转发类型
	Media           MediaList    `gorm:"type:json" json:"media,omitempty"`
	ParentTweetID   *uint64      `json:"parentTweetId,omitempty"`   // 回复指向的推文
	OriginalTweetID *uint64      `json:"originalTweetId,omitempty"` // 转发指向的推文
	LikeCount       int          `gorm:"default:0" json:"likeCount"`
	RetweetCount    int          `gorm:"default:0" json:"retweetCount"`
	ReplyCount      int          `gorm:"default:0" json:"replyCount"`
	BookmarkCount   int          `gorm:"default:0" json:"bookmarkCount"`
	CreatedAt       time.Time    `json:"createdAt"`
	Author          *UserSummary `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
