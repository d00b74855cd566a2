// Package notification holds the notification record shared by every
// component and the bounded history that pages keep of it.
package notification

import "time"

// TimestampLayout is ISO-8601 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Fallbacks applied to foreground payloads that lack fields.
const (
	FallbackTitle = "No Title"
	FallbackBody  = "No Body"
)

// Data describes one notification's display content.
type Data struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	IconURL   string `json:"iconUrl,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Time parses the timestamp. The zero time is returned when it is absent or malformed.
func (d Data) Time() time.Time {
	if d.Timestamp == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, d.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatTimestamp formats t the way Data.Timestamp is stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// MessagePayload is the provider-shaped foreground message delivered by FCM.
type MessagePayload struct {
	Notification *PayloadNotification `json:"notification,omitempty"`
	Data         map[string]string    `json:"data,omitempty"`
	From         string               `json:"from,omitempty"`
	MessageID    string               `json:"messageId,omitempty"`
}

// PayloadNotification is the notification block of a MessagePayload.
type PayloadNotification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Image string `json:"image,omitempty"`
}

// FromPayload normalizes a foreground payload. Missing title and body get
// fallbacks; icon and image are copied as they are.
func FromPayload(p MessagePayload) Data {
	var n PayloadNotification
	if p.Notification != nil {
		n = *p.Notification
	}

	d := Data{
		Title:    n.Title,
		Body:     n.Body,
		IconURL:  n.Icon,
		ImageURL: n.Image,
	}
	if d.Title == "" {
		d.Title = FallbackTitle
	}
	if d.Body == "" {
		d.Body = FallbackBody
	}
	return d
}
