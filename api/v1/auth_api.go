package v1

import (
	"errors"
	"log"
	"net/http"

	"quirk/api/v1/request"
	"quirk/internal/auth"
	"quirk/internal/metrics"
	"quirk/middleware"
	"quirk/service"

	"github.com/gin-gonic/gin"
)

// AuthAPI exposes HTTP handlers for register/login/logout/me flows.
// AuthAPI 聚合了所有与用户鉴权相关的 HTTP Handler。
type AuthAPI struct {
	service *service.AuthService
}

// NewAuthAPI wires the service layer into the HTTP handlers.
func NewAuthAPI(s *service.AuthService) *AuthAPI {
	return &AuthAPI{service: s}
}

// Register handles new account creation and logs the user straight in.
func (a *AuthAPI) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncRegister("bad_request")
		c.JSON(http.StatusBadRequest, bindingIssues(err))
		return
	}

	user, err := a.service.Register(req.DisplayName, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			metrics.IncRegister("conflict")
			c.JSON(http.StatusConflict, gin.H{"message": "Username or email already exists"})
			return
		}
		metrics.IncRegister("internal_error")
		log.Printf("register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := a.issueSession(c, user.ID); err != nil {
		metrics.IncRegister("internal_error")
		return
	}

	metrics.IncRegister("success")
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

// Login validates credentials and sets the session cookie.
func (a *AuthAPI) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.IncLogin("bad_request")
		c.JSON(http.StatusBadRequest, bindingIssues(err))
		return
	}

	user, err := a.service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			metrics.IncLogin("unauthorized")
			// 统一措辞，不暴露到底是邮箱不存在还是密码不对
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		metrics.IncLogin("internal_error")
		log.Printf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := a.issueSession(c, user.ID); err != nil {
		metrics.IncLogin("internal_error")
		return
	}

	metrics.IncLogin("success")
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout clears the session cookie with the exact attribute set it was
// issued with.
func (a *AuthAPI) Logout(c *gin.Context) {
	auth.ClearTokenCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "User logged out successfully"})
}

// Me returns the user referenced by the session cookie.
func (a *AuthAPI) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (a *AuthAPI) issueSession(c *gin.Context, userID uint64) error {
	token, err := auth.GenerateToken(userID)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return err
	}
	auth.SetTokenCookie(c, token)
	return nil
}
