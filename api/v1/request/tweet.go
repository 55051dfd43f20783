package request

type CreateTweetRequest struct {
	Text string `json:"text"`
}
