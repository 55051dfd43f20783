package dao

import (
	"fmt"

	"quirk/model"

	"gorm.io/gorm"
)

type UserDAO struct {
	db *gorm.DB
}

// NewUserDAO 创建一个新的 UserDAO 实例
func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser 创建新用户
func (dao *UserDAO) CreateUser(user *model.User) error {
	return dao.db.Create(user).Error
}

// GetByID 根据主键获取用户
func (dao *UserDAO) GetByID(id uint64) (*model.User, error) {
	var user model.User
	err := dao.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱查询用户（登录用）
func (dao *UserDAO) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := dao.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (dao *UserDAO) GetByUsername(username string) (*model.User, error) {
	var user model.User
	err := dao.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsernameOrEmail 注册前置检查：用户名或邮箱任一已占用即返回 true。
func (dao *UserDAO) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := dao.db.Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// UsernameExists 唯一用户名生成管线的探测查询。
func (dao *UserDAO) UsernameExists(username string) (bool, error) {
	var count int64
	err := dao.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// FindByOAuth matches an account by provider ID or, when the provider
// exposed one, by email — so an existing local account gets merged
// instead of duplicated.
func (dao *UserDAO) FindByOAuth(provider, providerID, email string) (*model.User, error) {
	var column string
	switch provider {
	case "google":
		column = "google_id"
	case "github":
		column = "git_hub_id"
	default:
		return nil, fmt.Errorf("unknown oauth provider %q", provider)
	}

	query := dao.db.Where(column+" = ?", providerID)
	if email != "" {
		query = query.Or("email = ?", email)
	}

	var user model.User
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AddFollowersCount 原子更新 followers_count，delta 可为负。
func (dao *UserDAO) AddFollowersCount(userID uint64, delta int) error {
	return dao.db.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + ?", delta)).Error
}

// AddFollowingCount 原子更新 following_count，delta 可为负。
func (dao *UserDAO) AddFollowingCount(userID uint64, delta int) error {
	return dao.db.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("following_count", gorm.Expr("following_count + ?", delta)).Error
}
