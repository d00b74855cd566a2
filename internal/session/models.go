package session

import (
	"context"

	"github.com/eternisai/firebase-notifier/internal/config"
)

// Permission is the browser notification permission as tracked by the session.
type Permission string

const (
	Loading Permission = "loading"
	Default Permission = "default"
	Granted Permission = "granted"
	Denied  Permission = "denied"
)

// ParsePermission maps a browser permission string to a Permission.
// Unknown values are treated as Default.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case Granted, Denied, Default:
		return Permission(s)
	default:
		return Default
	}
}

// WorkerPath is where the background worker script is served.
const WorkerPath = "/firebase-messaging-sw.js"

// Config is the messaging configuration handed to the session at startup.
type Config struct {
	WorkerPath string
	VAPIDKey   string
}

// NewConfig builds the session configuration from the Firebase settings.
func NewConfig(fb config.Firebase) Config {
	return Config{
		WorkerPath: WorkerPath,
		VAPIDKey:   fb.VAPIDKey,
	}
}

// Registration is an opaque handle to a registered background worker.
type Registration string

// Unsubscribe tears down a foreground message subscription.
type Unsubscribe func()

// Platform is the browser environment the session drives.
type Platform interface {
	// Supported reports whether the browser has a notification API.
	Supported(ctx context.Context) (bool, error)
	CurrentPermission(ctx context.Context) (Permission, error)
	// RequestPermission shows the platform dialog and returns its result.
	RequestPermission(ctx context.Context) (Permission, error)
	RegisterWorker(ctx context.Context, path string) (Registration, error)
	// GetToken returns the messaging token, or "" when none is available.
	GetToken(ctx context.Context, vapidKey string, reg Registration) (string, error)
	// Subscribe starts delivery of foreground messages to the session.
	Subscribe(ctx context.Context) (Unsubscribe, error)
}
