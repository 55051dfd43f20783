// Command-line stress test that simulates concurrent like / unlike traffic
// against the API and produces CSV + HTML reports. The interesting property
// is counter integrity: N distinct users hammering the same tweet must land
// on likeCount == N, and a second like per user must change nothing.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"sync"
	"time"
)

const baseURL = "http://127.0.0.1:8080/api/v1"

// likeResult 汇总单个用户的两次点赞行为，方便折叠到报告内。
type likeResult struct {
	Username   string
	FirstCode  int
	SecondCode int
	Liked      bool
	LikeCount  int
	ErrMessage string
	Timestamp  time.Time
}

// ======================= 基本 HTTP helper =======================

// newSessionClient 每个模拟用户一个独立 cookie jar，会话互不串扰。
func newSessionClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

// doJSON is a thin helper that serializes a JSON body and sends a request.
func doJSON(client *http.Client, method, url string, body any) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest(method, url, bytes.NewBuffer(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

// ======================= 注册 / 发推 Helpers =======================

// registerUser creates a fresh account; the register endpoint also sets the
// session cookie, so no separate login round-trip is needed (and the login
// rate limiter stays out of the way).
func registerUser(client *http.Client, username string) error {
	body := map[string]string{
		"displayName": username,
		"username":    username,
		"email":       username + "@stress.test",
		"password":    "StressPwd123!",
	}
	status, data, err := doJSON(client, http.MethodPost, baseURL+"/auth/register", body)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("register status %d body=%s", status, string(data))
	}
	return nil
}

// createTweet posts one tweet and returns its id.
func createTweet(client *http.Client, text string) (uint64, error) {
	status, data, err := doJSON(client, http.MethodPost, baseURL+"/tweets", map[string]string{"text": text})
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("create tweet status %d body=%s", status, string(data))
	}
	var tweet struct {
		ID uint64 `json:"id"`
	}
	if err := json.Unmarshal(data, &tweet); err != nil {
		return 0, err
	}
	return tweet.ID, nil
}

type likeState struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

func likeTweet(client *http.Client, tweetID uint64) (int, likeState, error) {
	status, data, err := doJSON(client, http.MethodPost,
		fmt.Sprintf("%s/tweets/%d/like", baseURL, tweetID), nil)
	if err != nil {
		return 0, likeState{}, err
	}
	var state likeState
	_ = json.Unmarshal(data, &state)
	return status, state, nil
}

func fetchLikeCount(client *http.Client, tweetID uint64, author string) (int, error) {
	status, data, err := doJSON(client, http.MethodGet, baseURL+"/tweets?page=1&limit=50", nil)
	if err != nil || status != http.StatusOK {
		return 0, fmt.Errorf("list tweets status=%d err=%v", status, err)
	}
	var page struct {
		Tweets []struct {
			ID        uint64 `json:"id"`
			LikeCount int    `json:"likeCount"`
		} `json:"tweets"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return 0, err
	}
	for _, tw := range page.Tweets {
		if tw.ID == tweetID {
			return tw.LikeCount, nil
		}
	}
	return 0, fmt.Errorf("tweet %d not in listing (author %s)", tweetID, author)
}

// ======================= 基础功能连通性测试 =======================

// endpointSmokeTests exercises register/login/tweet endpoints with positive and negative cases.
func endpointSmokeTests() error {
	suffix := time.Now().UnixNano() % 1000000
	username := fmt.Sprintf("smoke%d", suffix)
	client := newSessionClient()

	if err := registerUser(client, username); err != nil {
		return fmt.Errorf("register (new) failed: %w", err)
	}

	// 重复注册应当 409
	if status, _, err := doJSON(client, http.MethodPost, baseURL+"/auth/register", map[string]string{
		"displayName": username, "username": username,
		"email": username + "@stress.test", "password": "StressPwd123!",
	}); err != nil || status != http.StatusConflict {
		return fmt.Errorf("register (duplicate) expected 409, got %d err=%v", status, err)
	}

	// 错误密码登录应当 401
	if status, _, err := doJSON(client, http.MethodPost, baseURL+"/auth/login", map[string]string{
		"email": username + "@stress.test", "password": "wrong-password",
	}); err != nil || status != http.StatusUnauthorized {
		return fmt.Errorf("login (invalid creds) expected 401, got %d err=%v", status, err)
	}

	// 空推文应当 400
	if status, _, err := doJSON(client, http.MethodPost, baseURL+"/tweets", map[string]string{"text": "   "}); err != nil || status != http.StatusBadRequest {
		return fmt.Errorf("empty tweet expected 400, got %d err=%v", status, err)
	}

	if _, err := createTweet(client, "smoke tweet"); err != nil {
		return fmt.Errorf("create tweet failed: %w", err)
	}

	log.Println("endpoint smoke tests passed: register/login/tweet basic scenarios verified")
	return nil
}

// ======================= 并发测试与报告生成 =======================

// concurrentLikeTest orchestrates the whole run (register -> like storm -> report).
func concurrentLikeTest(userCount, maxConcurrent int, outCSV, outHTML string) error {
	suffix := time.Now().UnixNano() % 1000000

	// 推文作者
	author := fmt.Sprintf("author%d", suffix)
	authorClient := newSessionClient()
	if err := registerUser(authorClient, author); err != nil {
		return fmt.Errorf("author register failed: %w", err)
	}
	tweetID, err := createTweet(authorClient, "like storm target")
	if err != nil {
		return err
	}

	// 1) 并发注册参与用户
	type session struct {
		Username string
		Client   *http.Client
	}
	sessions := make([]session, 0, userCount)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)
	for i := 0; i < userCount; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			username := fmt.Sprintf("fan%d_%d", suffix, i)
			client := newSessionClient()
			if err := registerUser(client, username); err != nil {
				log.Printf("[register error] user=%s err=%v", username, err)
				return
			}
			mu.Lock()
			sessions = append(sessions, session{Username: username, Client: client})
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	// 2) 并发双击点赞：第二次必须原样返回
	resCh := make(chan likeResult, len(sessions))
	for _, s := range sessions {
		wg.Add(1)
		go func(s session) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := likeResult{Username: s.Username, Timestamp: time.Now()}
			code, _, err := likeTweet(s.Client, tweetID)
			res.FirstCode = code
			if err != nil {
				res.ErrMessage = err.Error()
				resCh <- res
				return
			}
			code, state, err := likeTweet(s.Client, tweetID)
			res.SecondCode = code
			res.Liked = state.Liked
			res.LikeCount = state.LikeCount
			if err != nil {
				res.ErrMessage = err.Error()
			} else if !state.Liked {
				res.ErrMessage = "second like reported liked=false"
			}
			resCh <- res
		}(s)
	}
	wg.Wait()
	close(resCh)

	// 3) 校验最终计数 == 参与人数
	finalCount, err := fetchLikeCount(authorClient, tweetID, author)
	if err != nil {
		return err
	}
	if finalCount != len(sessions) {
		log.Printf("COUNTER MISMATCH: %d users liked, likeCount=%d", len(sessions), finalCount)
	} else {
		log.Printf("counter integrity verified: %d likes -> likeCount=%d", len(sessions), finalCount)
	}

	// 4) 写 CSV 报告
	csvFile, err := os.Create(outCSV)
	if err != nil {
		return err
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	defer csvWriter.Flush()
	_ = csvWriter.Write([]string{"Username", "FirstCode", "SecondCode", "Liked", "LikeCount", "ErrMessage", "Timestamp"})

	var allResults []likeResult
	for r := range resCh {
		_ = csvWriter.Write([]string{
			r.Username,
			fmt.Sprintf("%d", r.FirstCode),
			fmt.Sprintf("%d", r.SecondCode),
			fmt.Sprintf("%t", r.Liked),
			fmt.Sprintf("%d", r.LikeCount),
			r.ErrMessage,
			r.Timestamp.Format(time.RFC3339),
		})
		allResults = append(allResults, r)
	}
	csvWriter.Flush()

	// 5) 生成简单 HTML 报告
	if err := writeHTMLReport(outHTML, allResults, len(sessions), finalCount); err != nil {
		log.Printf("write HTML report error: %v", err)
	}

	return nil
}

// writeHTMLReport renders a basic table so failures are easy to eyeball.
func writeHTMLReport(path string, results []likeResult, users, finalCount int) error {
	const tpl = `
<!doctype html>
<html>
<head><meta charset="utf-8"><title>Like Storm Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align:left }
th { background: #f4f4f4; }
.success { color: green; }
.fail { color: red; }
</style>
</head>
<body>
<h2>Like Storm Report ({{ .GeneratedAt }})</h2>
<p>Users: {{ .Users }} &mdash; final likeCount: {{ .FinalCount }}</p>
<table>
<thead><tr><th>Username</th><th>FirstCode</th><th>SecondCode</th><th>Liked</th><th>LikeCount</th><th>Error</th><th>Timestamp</th></tr></thead>
<tbody>
{{ range .Rows }}
<tr>
<td>{{ .Username }}</td>
<td>{{ .FirstCode }}</td>
<td>{{ .SecondCode }}</td>
<td>{{ .Liked }}</td>
<td>{{ .LikeCount }}</td>
<td>{{ .ErrMessage }}</td>
<td>{{ .Timestamp }}</td>
</tr>
{{ end }}
</tbody>
</table>
</body>
</html>`

	data := struct {
		GeneratedAt string
		Users       int
		FinalCount  int
		Rows        []likeResult
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Users:       users,
		FinalCount:  finalCount,
		Rows:        results,
	}

	t, err := template.New("report").Parse(tpl)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}

// ======================= main =======================

func main() {
	// 配置（调整为你需要的并发和用户数）
	userCount := 20
	maxConcurrent := 10
	outCSV := "like_report.csv"
	outHTML := "like_report.html"

	if err := endpointSmokeTests(); err != nil {
		log.Fatalf("endpoint smoke tests failed: %v", err)
	}

	start := time.Now()
	if err := concurrentLikeTest(userCount, maxConcurrent, outCSV, outHTML); err != nil {
		log.Fatalf("concurrent test failed: %v", err)
	}
	elapsed := time.Since(start)
	log.Printf("concurrent test finished in %s, CSV=%s HTML=%s\n", elapsed.String(), outCSV, outHTML)
	fmt.Println("All like-storm tests completed successfully!")
}
