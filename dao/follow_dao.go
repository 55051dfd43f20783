package dao

import (
	"quirk/model"

	"gorm.io/gorm"
)

type FollowDAO struct {
	db *gorm.DB
}

// NewFollowDAO 创建一个新的 FollowDAO 实例
func NewFollowDAO(db *gorm.DB) *FollowDAO {
	return &FollowDAO{db: db}
}

// CreateFollow 插入关注边，唯一索引兜底并发重复
func (dao *FollowDAO) CreateFollow(follow *model.Follow) error {
	return dao.db.Create(follow).Error
}

// Exists 判断关注边是否存在
func (dao *FollowDAO) Exists(followerID, followingID uint64) (bool, error) {
	var count int64
	err := dao.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// DeleteFollow 删除关注边，返回是否真的删到了行。
func (dao *FollowDAO) DeleteFollow(followerID, followingID uint64) (bool, error) {
	result := dao.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	return result.RowsAffected > 0, result.Error
}

// FollowingIDs 返回用户关注的全部目标 ID，时间线作者集合的来源。
func (dao *FollowDAO) FollowingIDs(followerID uint64) ([]uint64, error) {
	var ids []uint64
	err := dao.db.Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	return ids, err
}
