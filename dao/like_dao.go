package dao

import (
	"quirk/model"

	"gorm.io/gorm"
)

type LikeDAO struct {
	db *gorm.DB
}

// NewLikeDAO 创建一个新的 LikeDAO 实例
func NewLikeDAO(db *gorm.DB) *LikeDAO {
	return &LikeDAO{db: db}
}

// CreateLike 插入点赞记录，唯一索引兜底并发重复
func (dao *LikeDAO) CreateLike(like *model.Like) error {
	return dao.db.Create(like).Error
}

// Exists 判断用户是否已点赞该推文
func (dao *LikeDAO) Exists(userID, tweetID uint64) (bool, error) {
	var count int64
	err := dao.db.Model(&model.Like{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Count(&count).Error
	return count > 0, err
}

// DeleteLike 删除点赞记录，返回是否真的删到了行。
func (dao *LikeDAO) DeleteLike(userID, tweetID uint64) (bool, error) {
	result := dao.db.Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&model.Like{})
	return result.RowsAffected > 0, result.Error
}

// LikedTweetIDs resolves which of the given tweets the user has liked
// with a single IN query — one lookup per page, never one per tweet.
func (dao *LikeDAO) LikedTweetIDs(userID uint64, tweetIDs []uint64) (map[uint64]struct{}, error) {
	liked := make(map[uint64]struct{}, len(tweetIDs))
	if len(tweetIDs) == 0 {
		return liked, nil
	}
	var rows []model.Like
	err := dao.db.Select("tweet_id").
		Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		liked[row.TweetID] = struct{}{}
	}
	return liked, nil
}
