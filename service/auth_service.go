package service

import (
	"errors"
	"fmt"
	"strings"

	"quirk/dao"
	"quirk/model"
	"quirk/utils"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService 负责本地注册 / 登录与 OAuth 账号开通。
type AuthService struct {
	users *dao.UserDAO
}

// NewAuthService 创建一个新的 AuthService 实例
func NewAuthService(users *dao.UserDAO) *AuthService {
	return &AuthService{users: users}
}

// Register hashes the password and persists a fresh user. Username/email
// collisions are pre-checked; the unique indexes backstop concurrent inserts.
func (s *AuthService) Register(displayName, username, email, password string) (*model.User, error) {
	exists, err := s.users.ExistsByUsernameOrEmail(username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		DisplayName: displayName,
		Username:    username,
		Email:       email,
		Password:    hashed,
	}
	if err := s.users.CreateUser(user); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// Login 校验邮箱 + 密码。无论哪个错都返回同一个错误，不泄露是哪个字段。
func (s *AuthService) Login(email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil || user.ID == 0 {
		return nil, ErrInvalidCredentials
	}
	if user.Password == "" || !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser resolves the user referenced by a session token.
func (s *AuthService) GetUser(id uint64) (*model.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// OAuthProfile 提供方回传的标准化档案
type OAuthProfile struct {
	Provider    string // google | github
	ProviderID  string
	Username    string
	DisplayName string
	Email       string // 提供方可能不暴露邮箱
	Avatar      string
}

// LoginWithOAuth matches an existing account by provider ID or email, and
// provisions a verified, passwordless account on first login. Providers
// without an exposed email get a synthetic placeholder address.
func (s *AuthService) LoginWithOAuth(profile OAuthProfile) (*model.User, error) {
	user, err := s.users.FindByOAuth(profile.Provider, profile.ProviderID, profile.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	email := profile.Email
	if email == "" {
		email = fmt.Sprintf("%s_%s@users.quirk.local", profile.Provider, profile.ProviderID)
	}

	seed := firstNonEmpty(profile.Username, profile.DisplayName, emailLocalPart(profile.Email))
	username, err := s.generateUniqueUsername(seed)
	if err != nil {
		return nil, err
	}

	displayName := firstNonEmpty(profile.DisplayName, profile.Username, username)
	user = &model.User{
		Username:    username,
		DisplayName: displayName,
		Email:       email,
		Avatar:      profile.Avatar,
		IsVerified:  true,
	}
	switch profile.Provider {
	case "google":
		user.GoogleID = &profile.ProviderID
	case "github":
		user.GitHubID = &profile.ProviderID
	default:
		return nil, fmt.Errorf("unknown oauth provider %q", profile.Provider)
	}

	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "user"
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return ""
}

// isDuplicateKey 识别唯一索引冲突：gorm 翻译结果或 MySQL 1062。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
