package push

import "errors"

// ErrDisabled is returned when no messaging credentials are configured.
var ErrDisabled = errors.New("push notifications are disabled")

// Request is the body of POST /api/push.
type Request struct {
	Token    string `json:"token"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	IconURL  string `json:"iconUrl"`
	ImageURL string `json:"imageUrl"`
}

// Response is returned after a successful send.
type Response struct {
	MessageID string `json:"messageId"`
}
