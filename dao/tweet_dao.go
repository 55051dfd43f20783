package dao

import (
	"quirk/model"

	"gorm.io/gorm"
)

type TweetDAO struct {
	db *gorm.DB
}

// NewTweetDAO 创建一个新的 TweetDAO 实例
func NewTweetDAO(db *gorm.DB) *TweetDAO {
	return &TweetDAO{db: db}
}

// CreateTweet 创建新推文，计数字段走默认零值
func (dao *TweetDAO) CreateTweet(tweet *model.Tweet) error {
	return dao.db.Create(tweet).Error
}

// GetByID 根据主键获取推文
func (dao *TweetDAO) GetByID(id uint64) (*model.Tweet, error) {
	var tweet model.Tweet
	err := dao.db.First(&tweet, id).Error
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

// Count 全表计数，用于计算总页数
func (dao *TweetDAO) Count() (int64, error) {
	var count int64
	err := dao.db.Model(&model.Tweet{}).Count(&count).Error
	return count, err
}

// ListPage 按创建时间倒序分页，作者只投影 display name / username / avatar。
func (dao *TweetDAO) ListPage(limit, offset int) ([]model.Tweet, error) {
	var tweets []model.Tweet
	err := dao.db.Preload("Author").
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&tweets).Error
	return tweets, err
}

// ListByAuthors 限定作者集合的分页列表，时间线专用。
func (dao *TweetDAO) ListByAuthors(authorIDs []uint64, limit, offset int) ([]model.Tweet, error) {
	var tweets []model.Tweet
	err := dao.db.Preload("Author").
		Where("author_id IN ?", authorIDs).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&tweets).Error
	return tweets, err
}

// ListByAuthor 单个作者最近的推文
func (dao *TweetDAO) ListByAuthor(authorID uint64, limit int) ([]model.Tweet, error) {
	var tweets []model.Tweet
	err := dao.db.Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&tweets).Error
	return tweets, err
}

// AddLikeCount atomically shifts like_count at the storage layer so
// concurrent likes on the same tweet never lose updates.
func (dao *TweetDAO) AddLikeCount(tweetID uint64, delta int) error {
	return dao.db.Model(&model.Tweet{}).Where("id = ?", tweetID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}
