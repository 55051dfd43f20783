package v1

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"quirk/api/v1/request"
	"quirk/internal/metrics"
	"quirk/middleware"
	"quirk/service"

	"github.com/gin-gonic/gin"
)

// TweetAPI 聚合发推 / 列表 / 时间线 / 点赞相关 Handler。
type TweetAPI struct {
	service *service.TweetService
}

// NewTweetAPI wires the service layer into the HTTP handlers.
func NewTweetAPI(s *service.TweetService) *TweetAPI {
	return &TweetAPI{service: s}
}

// Create handles POST /tweets. Responds 200 on success, matching the
// behavior clients already depend on.
func (t *TweetAPI) Create(c *gin.Context) {
	var req request.CreateTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	tweet, err := t.service.Create(middleware.CurrentUserID(c), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyTweet):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Tweet Text cannot be empty"})
		case errors.Is(err, service.ErrTweetTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Tweet Text exceeds 280 characters"})
		default:
			log.Printf("create tweet failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}

	metrics.IncTweetCreated()
	c.JSON(http.StatusOK, tweet)
}

// List handles GET /tweets?page&limit — the global feed.
func (t *TweetAPI) List(c *gin.Context) {
	page, limit := pageQuery(c)
	feed, err := t.service.ListAll(middleware.CurrentUserID(c), page, limit)
	if err != nil {
		log.Printf("list tweets failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, feed)
}

// Timeline handles GET /tweets/timeline — followees plus self.
func (t *TweetAPI) Timeline(c *gin.Context) {
	page, limit := pageQuery(c)
	items, err := t.service.Timeline(middleware.CurrentUserID(c), page, limit)
	if err != nil {
		log.Printf("timeline failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// UserTweets handles GET /tweets/user/:userId — up to 50 newest tweets.
func (t *TweetAPI) UserTweets(c *gin.Context) {
	authorID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	items, err := t.service.UserTweets(authorID, middleware.CurrentUserID(c))
	if err != nil {
		log.Printf("user tweets failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Like handles POST /tweets/:id/like.
func (t *TweetAPI) Like(c *gin.Context) {
	t.likeAction(c, "like", t.service.Like)
}

// Unlike handles DELETE /tweets/:id/like.
func (t *TweetAPI) Unlike(c *gin.Context) {
	t.likeAction(c, "unlike", t.service.Unlike)
}

func (t *TweetAPI) likeAction(c *gin.Context, action string, fn func(userID, tweetID uint64) (*service.LikeState, error)) {
	tweetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid tweet id"})
		return
	}

	state, err := fn(middleware.CurrentUserID(c), tweetID)
	if err != nil {
		if errors.Is(err, service.ErrTweetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Tweet not found"})
			return
		}
		log.Printf("%s failed: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	metrics.IncLike(action)
	c.JSON(http.StatusOK, state)
}

func pageQuery(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil {
		limit = 5
	}
	return page, limit
}
