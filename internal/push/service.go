// Package push sends notifications to a browser token through Firebase Cloud Messaging.
package push

import (
	"context"
	"fmt"
	"log/slog"

	"firebase.google.com/go/v4/messaging"

	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/metrics"
	"github.com/eternisai/firebase-notifier/internal/notification"
	"github.com/eternisai/firebase-notifier/internal/worker"
)

type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Sender sends a single notification to a single token.
type Sender struct {
	client  messageSender
	logger  *logger.Logger
	debug   func(ctx context.Context, message *messaging.Message) string
	linkURL string
}

// SenderOption configures a Sender.
type SenderOption func(*Sender)

// WithLink sets the absolute HTTPS URL opened when a web push is clicked.
func WithLink(url string) SenderOption {
	return func(s *Sender) { s.linkURL = url }
}

// WithDebugCurl logs an equivalent curl command when a send fails.
func WithDebugCurl(credJSON, projectID string) SenderOption {
	return func(s *Sender) {
		s.debug = func(ctx context.Context, message *messaging.Message) string {
			return DebugCurl(ctx, credJSON, projectID, message)
		}
	}
}

// NewSender creates a sender. A nil client yields a disabled sender.
func NewSender(client *messaging.Client, logger *logger.Logger, opts ...SenderOption) *Sender {
	var sender messageSender
	if client != nil {
		sender = client
	}
	return newSender(sender, logger, opts...)
}

func newSender(client messageSender, logger *logger.Logger, opts ...SenderOption) *Sender {
	s := &Sender{
		client: client,
		logger: logger.WithComponent("push"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether the sender can reach FCM.
func (s *Sender) Enabled() bool {
	return s.client != nil
}

// Send delivers data to token and returns the FCM message id.
func (s *Sender) Send(ctx context.Context, token string, data notification.Data) (string, error) {
	log := s.logger.WithContext(ctx)

	if !s.Enabled() {
		log.Debug("push notifications disabled, skipping")
		metrics.PushSends.WithLabelValues("disabled").Inc()
		return "", ErrDisabled
	}

	message := BuildMessage(token, data, s.linkURL)

	log.Info("sending push notification",
		slog.String("token_prefix", tokenPrefix(token)),
		slog.String("title", data.Title))

	id, err := s.client.Send(ctx, message)
	if err != nil {
		metrics.PushSends.WithLabelValues("failure").Inc()
		log.Error("failed to send push notification",
			slog.String("token_prefix", tokenPrefix(token)),
			slog.String("error", err.Error()))
		if s.debug != nil {
			log.Debug("fcm debug request", slog.String("curl", s.debug(ctx, message)))
		}
		return "", fmt.Errorf("send push notification: %w", err)
	}

	metrics.PushSends.WithLabelValues("success").Inc()
	log.Info("push notification sent", slog.String("message_id", id))
	return id, nil
}

// BuildMessage creates the FCM message for data. The browser's messaging SDK
// displays it as is, so the worker's default icon fills an empty icon here.
// An empty image is omitted.
func BuildMessage(token string, data notification.Data, link string) *messaging.Message {
	icon := data.IconURL
	if icon == "" {
		icon = worker.DefaultDisplay.Icon
	}
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title:    data.Title,
			Body:     data.Body,
			ImageURL: data.ImageURL,
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: data.Title,
				Body:  data.Body,
				Icon:  icon,
				Image: data.ImageURL,
				Badge: worker.DefaultDisplay.Badge,
			},
		},
	}
	if link != "" {
		message.Webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: link}
	}
	return message
}

func tokenPrefix(token string) string {
	return token[:min(10, len(token))] + "..."
}
