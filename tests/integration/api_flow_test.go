package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"testing"
	"time"
)

// TestSocialFlow walks the whole surface against a running server:
// register two users, post, like (twice — idempotent), follow, timeline.
func TestSocialFlow(t *testing.T) {
	baseURL := os.Getenv("INTEGRATION_BASE_URL")
	if baseURL == "" {
		t.Skip("INTEGRATION_BASE_URL not set; skipping integration test")
	}

	suffix := time.Now().UnixNano() % 1000000
	alice := newClient(t)
	bob := newClient(t)

	aliceUser := register(t, alice, baseURL, fmt.Sprintf("it_alice_%d", suffix))
	register(t, bob, baseURL, fmt.Sprintf("it_bob_%d", suffix))

	// 注册即登录，/auth/me 直接可用
	var me struct {
		User struct {
			ID       uint64 `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	doJSON(t, bob, http.MethodGet, baseURL+"/auth/me", nil, http.StatusOK, &me)

	// Alice 发推
	var tweet struct {
		ID        uint64 `json:"id"`
		Text      string `json:"text"`
		LikeCount int    `json:"likeCount"`
	}
	doJSON(t, alice, http.MethodPost, baseURL+"/tweets",
		map[string]string{"text": "hello"}, http.StatusOK, &tweet)
	if tweet.Text != "hello" || tweet.LikeCount != 0 {
		t.Fatalf("unexpected tweet payload: %+v", tweet)
	}

	// Bob 点赞，两次结果一致
	var like struct {
		Liked     bool `json:"liked"`
		LikeCount int  `json:"likeCount"`
	}
	likeURL := fmt.Sprintf("%s/tweets/%d/like", baseURL, tweet.ID)
	doJSON(t, bob, http.MethodPost, likeURL, nil, http.StatusOK, &like)
	if !like.Liked || like.LikeCount != 1 {
		t.Fatalf("first like: got %+v", like)
	}
	doJSON(t, bob, http.MethodPost, likeURL, nil, http.StatusOK, &like)
	if !like.Liked || like.LikeCount != 1 {
		t.Fatalf("second like must be idempotent: got %+v", like)
	}

	// Bob 关注 Alice；自关注和重复关注被拒绝
	followURL := fmt.Sprintf("%s/users/%d/follow", baseURL, aliceUser.ID)
	doJSON(t, bob, http.MethodPost, followURL, nil, http.StatusOK, nil)
	doStatus(t, bob, http.MethodPost, followURL, nil, http.StatusConflict)
	selfURL := fmt.Sprintf("%s/users/%d/follow", baseURL, me.User.ID)
	doStatus(t, bob, http.MethodPost, selfURL, nil, http.StatusBadRequest)

	// Bob 的时间线包含 Alice 的推文
	var timeline []struct {
		ID        uint64 `json:"id"`
		Text      string `json:"text"`
		LikedByMe *bool  `json:"likedByMe"`
	}
	doJSON(t, bob, http.MethodGet, baseURL+"/tweets/timeline", nil, http.StatusOK, &timeline)
	found := false
	for _, item := range timeline {
		if item.ID == tweet.ID {
			found = true
			if item.LikedByMe == nil || !*item.LikedByMe {
				t.Fatalf("timeline item missing likedByMe annotation: %+v", item)
			}
		}
	}
	if !found {
		t.Fatalf("followee tweet %d missing from timeline", tweet.ID)
	}

	// 档案带 isFollowing
	var profile struct {
		IsFollowing bool `json:"isFollowing"`
	}
	doJSON(t, bob, http.MethodGet, baseURL+"/users/"+aliceUser.Username, nil, http.StatusOK, &profile)
	if !profile.IsFollowing {
		t.Fatal("profile should report isFollowing=true after follow")
	}

	// 注销后会话失效
	doJSON(t, bob, http.MethodPost, baseURL+"/auth/logout", nil, http.StatusOK, nil)
	doStatus(t, bob, http.MethodGet, baseURL+"/auth/me", nil, http.StatusUnauthorized)
}

type registeredUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func register(t *testing.T, client *http.Client, baseURL, username string) registeredUser {
	t.Helper()
	var resp struct {
		User registeredUser `json:"user"`
	}
	doJSON(t, client, http.MethodPost, baseURL+"/auth/register", map[string]string{
		"displayName": username,
		"username":    username,
		"email":       username + "@it.test",
		"password":    "Passw0rd!",
	}, http.StatusCreated, &resp)
	return resp.User
}

func doJSON(t *testing.T, client *http.Client, method, url string, body interface{}, expectedStatus int, out interface{}) {
	t.Helper()
	resp := send(t, client, method, url, body)
	defer resp.Body.Close()
	if resp.StatusCode != expectedStatus {
		t.Fatalf("%s %s: expected %d, got %d", method, url, expectedStatus, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode failed: %v", method, url, err)
		}
	}
}

func doStatus(t *testing.T, client *http.Client, method, url string, body interface{}, expectedStatus int) {
	t.Helper()
	resp := send(t, client, method, url, body)
	defer resp.Body.Close()
	if resp.StatusCode != expectedStatus {
		t.Fatalf("%s %s: expected %d, got %d", method, url, expectedStatus, resp.StatusCode)
	}
}

func send(t *testing.T, client *http.Client, method, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}
