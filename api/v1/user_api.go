package v1

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"quirk/internal/metrics"
	"quirk/middleware"
	"quirk/service"

	"github.com/gin-gonic/gin"
)

// UserAPI 聚合社交图相关 Handler：关注 / 取关 / 档案。
type UserAPI struct {
	service *service.UserService
}

// NewUserAPI wires the service layer into the HTTP handlers.
func NewUserAPI(s *service.UserService) *UserAPI {
	return &UserAPI{service: s}
}

// Follow handles POST /users/:id/follow.
func (u *UserAPI) Follow(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	err = u.service.Follow(middleware.CurrentUserID(c), targetID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfFollow):
			c.JSON(http.StatusBadRequest, gin.H{"message": "You cannot follow yourself"})
		case errors.Is(err, service.ErrAlreadyFollowing):
			c.JSON(http.StatusConflict, gin.H{"message": "You are already following this user"})
		default:
			log.Printf("follow failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	metrics.IncFollow("follow")
	c.JSON(http.StatusOK, gin.H{"message": "User followed successfully"})
}

// Unfollow handles DELETE /users/:id/follow.
func (u *UserAPI) Unfollow(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	err = u.service.Unfollow(middleware.CurrentUserID(c), targetID)
	if err != nil {
		if errors.Is(err, service.ErrNotFollowing) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "You are not following this user"})
			return
		}
		log.Printf("unfollow failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	metrics.IncFollow("unfollow")
	c.JSON(http.StatusOK, gin.H{"message": "User unfollowed successfully"})
}

// Profile handles GET /users/:username — public profile plus whether the
// requester already follows the target. The route parameter shares the
// :id name with the follow routes but carries the username.
func (u *UserAPI) Profile(c *gin.Context) {
	profile, isFollowing, err := u.service.GetProfile(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("profile failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        profile,
		"isFollowing": isFollowing,
	})
}
