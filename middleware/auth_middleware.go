package middleware

import (
	"net/http"

	"quirk/dao"
	"quirk/internal/auth"
	"quirk/model"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// AuthMiddleware 从 httponly cookie 取 token，校验后把用户加载进上下文。
// token 缺失 / 伪造 / 过期 / 指向已删除用户一律 401。
func AuthMiddleware(users *dao.UserDAO) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.TokenCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token invalid or expired"})
			return
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the caller when a valid cookie is
// present but never rejects the request. Feed endpoints use it to decide
// whether to annotate likedByMe.
func OptionalAuthMiddleware(users *dao.UserDAO) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.TokenCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			c.Next()
			return
		}
		if user, err := users.GetByID(claims.UserID); err == nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser 取出中间件写入的登录用户
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

// CurrentUserID 未登录时返回 0
func CurrentUserID(c *gin.Context) uint64 {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return 0
}
