package service

import (
	"errors"
	"fmt"
	"time"

	"quirk/dao"
	"quirk/model"

	"gorm.io/gorm"
)

var (
	ErrSelfFollow       = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing = errors.New("you are already following this user")
	ErrNotFollowing     = errors.New("you are not following this user")
)

// Profile 公开档案视图，密码之外的字段加上前端期待的 banner 别名。
type Profile struct {
	ID             uint64    `json:"id"`
	DisplayName    string    `json:"displayName"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio"`
	Avatar         string    `json:"avatar"`
	Banner         string    `json:"banner"` // coverPhoto，前端按 banner 取
	CreatedAt      time.Time `json:"createdAt"`
	FollowersCount int       `json:"followersCount"`
	FollowingCount int       `json:"followingCount"`
	TweetsCount    int       `json:"tweetsCount"` // 前端拉取推文后自行覆盖
	IsVerified     bool      `json:"isVerified"`
}

// UserService 负责社交图：关注 / 取关 / 档案查询。
type UserService struct {
	users   *dao.UserDAO
	follows *dao.FollowDAO
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(users *dao.UserDAO, follows *dao.FollowDAO) *UserService {
	return &UserService{users: users, follows: follows}
}

// Follow inserts the edge and bumps both denormalized counters. The two
// counter updates hit different user rows and are not atomic as a pair;
// a crash in between leaves counts transiently off. Accepted gap.
func (s *UserService) Follow(followerID, targetID uint64) error {
	if followerID == targetID {
		return ErrSelfFollow
	}

	exists, err := s.follows.Exists(followerID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFollowing
	}

	err = s.follows.CreateFollow(&model.Follow{FollowerID: followerID, FollowingID: targetID})
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyFollowing
		}
		return err
	}

	if err := s.users.AddFollowingCount(followerID, 1); err != nil {
		return err
	}
	return s.users.AddFollowersCount(targetID, 1)
}

// Unfollow 删除关注边并对称递减两个计数。
func (s *UserService) Unfollow(followerID, targetID uint64) error {
	deleted, err := s.follows.DeleteFollow(followerID, targetID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFollowing
	}

	if err := s.users.AddFollowingCount(followerID, -1); err != nil {
		return err
	}
	return s.users.AddFollowersCount(targetID, -1)
}

// GetProfile 按用户名查公开档案，并算出请求者是否已关注目标。
func (s *UserService) GetProfile(username string, viewerID uint64) (*Profile, bool, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, err
	}

	isFollowing, err := s.follows.Exists(viewerID, user.ID)
	if err != nil {
		return nil, false, err
	}

	bio := user.Bio
	if bio == "" {
		bio = fmt.Sprintf("Hello! I'm %s", user.DisplayName)
	}
	profile := &Profile{
		ID:             user.ID,
		DisplayName:    user.DisplayName,
		Username:       user.Username,
		Email:          user.Email,
		Bio:            bio,
		Avatar:         user.Avatar,
		Banner:         user.CoverPhoto,
		CreatedAt:      user.CreatedAt,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
		IsVerified:     user.IsVerified,
	}
	return profile, isFollowing, nil
}
