// Package session tracks notification permission and the messaging token
// for one browser tab as an explicit state machine.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/eternisai/firebase-notifier/internal/event"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/metrics"
	"github.com/eternisai/firebase-notifier/internal/notification"
)

// Handler receives normalized foreground messages.
type Handler func(ctx context.Context, data notification.Data)

const (
	titlePermissionDenied = "Permission Denied"
	descPermissionDenied  = "You will not receive push notifications."
	titleSetupFailed      = "FCM Setup Failed"
	descSetupFailed       = "Could not set up Firebase messaging. See logs for details."
)

// Session is the permission/token state machine. Transitions happen only
// on results of Start and RequestPermission. Entering Granted registers the
// worker, fetches the token and subscribes to foreground messages; leaving
// Granted unsubscribes.
type Session struct {
	platform Platform
	cfg      Config
	handler  Handler
	logger   *logger.Logger

	mu          sync.Mutex
	permission  Permission
	token       string
	unsubscribe Unsubscribe
}

// New creates a session in the Loading state.
func New(platform Platform, cfg Config, handler Handler, logger *logger.Logger) *Session {
	return &Session{
		platform:   platform,
		cfg:        cfg,
		handler:    handler,
		logger:     logger.WithComponent("session"),
		permission: Loading,
	}
}

func (s *Session) Permission() Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permission
}

// Token returns the messaging token, or "" if none was obtained.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribed reports whether a foreground subscription is active.
func (s *Session) Subscribed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsubscribe != nil
}

// Start reads the initial permission. An unsupported platform is treated as Denied.
func (s *Session) Start(ctx context.Context) []event.Event {
	log := s.logger.WithContext(ctx)

	supported, err := s.platform.Supported(ctx)
	if err != nil {
		log.Warn("failed to detect notification support", slog.String("error", err.Error()))
	}
	if err != nil || !supported {
		events := s.transition(ctx, Denied)
		return append(events, event.Quiet(event.Unsupported, "Notifications are not supported in this browser"))
	}

	current, err := s.platform.CurrentPermission(ctx)
	if err != nil {
		log.Warn("failed to read notification permission", slog.String("error", err.Error()))
		current = Default
	}

	return s.transition(ctx, current)
}

// RequestPermission prompts the user. It does nothing once permission is granted.
func (s *Session) RequestPermission(ctx context.Context) []event.Event {
	if s.Permission() == Granted {
		return nil
	}

	log := s.logger.WithContext(ctx)

	result, err := s.platform.RequestPermission(ctx)
	if err != nil {
		log.Warn("permission request failed", slog.String("error", err.Error()))
		result = Denied
	}

	events := s.transition(ctx, result)
	if result != Granted {
		events = append(events, event.Warning(event.PermissionDenied, titlePermissionDenied, descPermissionDenied))
	}
	return events
}

// HandleForeground normalizes a foreground message and hands it to the
// handler. Messages arriving without an active subscription are dropped.
func (s *Session) HandleForeground(ctx context.Context, payload notification.MessagePayload) []event.Event {
	if !s.Subscribed() {
		s.logger.WithContext(ctx).Debug("dropping foreground message without subscription")
		return nil
	}

	data := notification.FromPayload(payload)
	s.logger.WithContext(ctx).Info("foreground message received",
		slog.String("message_id", payload.MessageID),
		slog.String("title", data.Title))

	if s.handler != nil {
		s.handler(ctx, data)
	}

	return []event.Event{event.Info(event.MessageReceived, data.Title, data.Body)}
}

// Close runs the exit action of the current state.
func (s *Session) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Session) transition(ctx context.Context, to Permission) []event.Event {
	s.mu.Lock()
	from := s.permission
	s.mu.Unlock()

	if from == to {
		return nil
	}

	if from == Granted {
		s.Close()
	}

	s.mu.Lock()
	s.permission = to
	s.mu.Unlock()

	metrics.PermissionTransitions.WithLabelValues(string(from), string(to)).Inc()
	s.logger.WithContext(ctx).Info("permission changed",
		slog.String("from", string(from)),
		slog.String("to", string(to)))

	var events []event.Event
	if to == Granted {
		events = append(events, event.Quiet(event.PermissionGranted, "Notifications enabled"))
		events = append(events, s.setupFCM(ctx)...)
		events = append(events, s.subscribe(ctx)...)
	}
	return events
}

// setupFCM registers the worker and fetches the token. Failures are not retried.
func (s *Session) setupFCM(ctx context.Context) []event.Event {
	log := s.logger.WithContext(logger.WithOperation(ctx, "setup_fcm"))

	reg, err := s.platform.RegisterWorker(ctx, s.cfg.WorkerPath)
	if err != nil {
		log.Error("failed to register background worker",
			slog.String("path", s.cfg.WorkerPath),
			slog.String("error", err.Error()))
		return []event.Event{event.Error(event.SetupFailed, titleSetupFailed, descSetupFailed)}
	}

	token, err := s.platform.GetToken(ctx, s.cfg.VAPIDKey, reg)
	if err != nil {
		log.Error("an error occurred while retrieving token", slog.String("error", err.Error()))
		return []event.Event{event.Error(event.SetupFailed, titleSetupFailed, descSetupFailed)}
	}
	if token == "" {
		log.Warn("no registration token available")
		return []event.Event{event.Quiet(event.TokenUnavailable, "No registration token available")}
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	log.Info("messaging token registered", slog.Int("token_length", len(token)))
	return []event.Event{event.Quiet(event.TokenRegistered, "Messaging token registered")}
}

// subscribe keeps at most one subscription; any previous one is torn down first.
func (s *Session) subscribe(ctx context.Context) []event.Event {
	s.Close()

	unsubscribe, err := s.platform.Subscribe(ctx)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to subscribe to foreground messages",
			slog.String("error", err.Error()))
		return []event.Event{event.Error(event.SetupFailed, titleSetupFailed, descSetupFailed)}
	}

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
	return nil
}
