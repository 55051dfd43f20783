package service

import (
	"errors"
	"strings"

	"quirk/dao"
	"quirk/model"

	"gorm.io/gorm"
)

var (
	ErrEmptyTweet    = errors.New("tweet text cannot be empty")
	ErrTweetTooLong  = errors.New("tweet text exceeds 280 characters")
	ErrTweetNotFound = errors.New("tweet not found")
)

// MaxTweetLength 推文长度上限
const MaxTweetLength = 280

// UserTweetsLimit 个人页最多返回的推文条数
const UserTweetsLimit = 50

// FeedItem 携带可选 likedByMe 标记的推文。未登录访问时不输出该字段。
type FeedItem struct {
	model.Tweet
	LikedByMe *bool `json:"likedByMe,omitempty"`
}

// FeedPage 全站推文列表的分页响应
type FeedPage struct {
	Tweets      []FeedItem `json:"tweets"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
}

// LikeState 点赞/取消赞的响应载荷
type LikeState struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// TweetService 负责发推、时间线拼装与点赞状态。
type TweetService struct {
	tweets  *dao.TweetDAO
	likes   *dao.LikeDAO
	follows *dao.FollowDAO
}

// NewTweetService 创建一个新的 TweetService 实例
func NewTweetService(tweets *dao.TweetDAO, likes *dao.LikeDAO, follows *dao.FollowDAO) *TweetService {
	return &TweetService{tweets: tweets, likes: likes, follows: follows}
}

// Create persists a new tweet with zero counters.
func (s *TweetService) Create(authorID uint64, text string) (*model.Tweet, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyTweet
	}
	if len([]rune(text)) > MaxTweetLength {
		return nil, ErrTweetTooLong
	}
	tweet := &model.Tweet{AuthorID: authorID, Text: text}
	if err := s.tweets.CreateTweet(tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// ListAll 全站推文，倒序分页。viewerID 为 0 表示未登录，不做 likedByMe 标注。
func (s *TweetService) ListAll(viewerID uint64, page, limit int) (*FeedPage, error) {
	page, limit = normalizePage(page, limit)

	total, err := s.tweets.Count()
	if err != nil {
		return nil, err
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	tweets, err := s.tweets.ListPage(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	items, err := s.annotate(tweets, viewerID)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Tweets: items, CurrentPage: page, TotalPages: totalPages}, nil
}

// Timeline composes the personalized feed: tweets authored by the
// user's followees plus the user, newest first, same pagination and
// liked annotation as the global listing.
func (s *TweetService) Timeline(userID uint64, page, limit int) ([]FeedItem, error) {
	page, limit = normalizePage(page, limit)

	authorIDs, err := s.follows.FollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	authorIDs = append(authorIDs, userID)

	tweets, err := s.tweets.ListByAuthors(authorIDs, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return s.annotate(tweets, userID)
}

// UserTweets 指定作者最近 50 条，登录访问时带 likedByMe。
func (s *TweetService) UserTweets(authorID, viewerID uint64) ([]FeedItem, error) {
	tweets, err := s.tweets.ListByAuthor(authorID, UserTweetsLimit)
	if err != nil {
		return nil, err
	}
	return s.annotate(tweets, viewerID)
}

// Like is idempotent: an existing row returns the current state without
// another increment. The counter update is atomic at the storage layer.
func (s *TweetService) Like(userID, tweetID uint64) (*LikeState, error) {
	tweet, err := s.getTweet(tweetID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likes.Exists(userID, tweetID)
	if err != nil {
		return nil, err
	}
	if liked {
		return &LikeState{Liked: true, LikeCount: tweet.LikeCount}, nil
	}

	if err := s.likes.CreateLike(&model.Like{UserID: userID, TweetID: tweetID}); err != nil {
		// 并发双击：唯一索引已兜住，视为已点赞，不再加计数
		if isDuplicateKey(err) {
			return s.currentLikeState(tweetID, true)
		}
		return nil, err
	}
	if err := s.tweets.AddLikeCount(tweetID, 1); err != nil {
		return nil, err
	}
	return s.currentLikeState(tweetID, true)
}

// Unlike 对称操作：没点过赞时原样返回当前计数，计数永不为负。
func (s *TweetService) Unlike(userID, tweetID uint64) (*LikeState, error) {
	tweet, err := s.getTweet(tweetID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.likes.DeleteLike(userID, tweetID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return &LikeState{Liked: false, LikeCount: tweet.LikeCount}, nil
	}
	if err := s.tweets.AddLikeCount(tweetID, -1); err != nil {
		return nil, err
	}
	return s.currentLikeState(tweetID, false)
}

func (s *TweetService) getTweet(tweetID uint64) (*model.Tweet, error) {
	tweet, err := s.tweets.GetByID(tweetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) currentLikeState(tweetID uint64, liked bool) (*LikeState, error) {
	tweet, err := s.getTweet(tweetID)
	if err != nil {
		return nil, err
	}
	return &LikeState{Liked: liked, LikeCount: tweet.LikeCount}, nil
}

// annotate marks likedByMe for a page of tweets with ONE batched lookup
// of the viewer's like rows against the page's tweet-id set. Anything
// resembling a per-tweet query here is a regression.
func (s *TweetService) annotate(tweets []model.Tweet, viewerID uint64) ([]FeedItem, error) {
	items := make([]FeedItem, len(tweets))
	for i, tweet := range tweets {
		items[i] = FeedItem{Tweet: tweet}
	}
	if viewerID == 0 {
		return items, nil
	}

	ids := make([]uint64, len(tweets))
	for i, tweet := range tweets {
		ids[i] = tweet.ID
	}
	likedSet, err := s.likes.LikedTweetIDs(viewerID, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		_, ok := likedSet[items[i].ID]
		liked := ok
		items[i].LikedByMe = &liked
	}
	return items, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 5
	}
	return page, limit
}
