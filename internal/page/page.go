// Package page owns the notification template and log for one browser tab
// and coordinates the editor, session and preview on its behalf.
package page

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/event"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/metrics"
	"github.com/eternisai/firebase-notifier/internal/notification"
	"github.com/eternisai/firebase-notifier/internal/preview"
	"github.com/eternisai/firebase-notifier/internal/push"
	"github.com/eternisai/firebase-notifier/internal/session"
)

// Log sources.
const (
	SourceLocalTest  = "local_test"
	SourceForeground = "foreground"
)

// Deps are the collaborators of a page.
type Deps struct {
	View          View
	Platform      session.Platform
	SessionConfig session.Config
	Generator     editor.Generator
	// Pusher is optional; without it SendPush reports that push is unavailable.
	Pusher   Pusher
	Template config.Template
	Logger   *logger.Logger
}

// Option configures a Page.
type Option func(*Page)

// WithClock overrides the time source used for log timestamps and relative times.
func WithClock(now func() time.Time) Option {
	return func(p *Page) { p.now = now }
}

// Page is the single owner of the template and log. Its methods are meant
// to be called from one goroutine.
type Page struct {
	view    View
	session *session.Session
	editor  *editor.Editor
	pusher  Pusher
	logger  *logger.Logger
	now     func() time.Time

	values   editor.Values
	template notification.Data
	log      *notification.Log
}

// New creates a page with the configured default template.
func New(deps Deps, opts ...Option) *Page {
	p := &Page{
		view:   deps.View,
		editor: editor.New(deps.Generator, deps.Logger),
		pusher: deps.Pusher,
		logger: deps.Logger.WithComponent("page"),
		now:    time.Now,
		values: editor.DefaultValues(deps.Template),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.template = p.values.Data()
	p.log = notification.NewLog(notification.WithClock(p.now))
	p.session = session.New(deps.Platform, deps.SessionConfig, p.receive, deps.Logger)
	return p
}

// Open starts the session and pushes the initial view.
func (p *Page) Open(ctx context.Context) {
	p.view.SetValues(p.values)
	p.renderPreview(ctx)
	p.renderLog(ctx)
	p.view.SetPermission(p.session.Permission())

	p.present(p.session.Start(ctx))
	p.view.SetPermission(p.session.Permission())
}

// Close tears down the foreground subscription.
func (p *Page) Close() {
	p.session.Close()
}

// ChangeTemplate replaces the live template with the current form values.
func (p *Page) ChangeTemplate(ctx context.Context, values editor.Values) {
	p.values = values
	p.template = p.editor.Change(values)
	p.renderPreview(ctx)
}

// SendTest fires a local test notification for valid values. Without
// permission it requests permission instead and nothing is shown or logged.
func (p *Page) SendTest(ctx context.Context, values editor.Values) {
	p.values = values
	data, errs := p.editor.Submit(values)
	p.view.SetFieldErrors(errs)
	if !errs.OK() {
		return
	}
	p.template = data

	if p.session.Permission() != session.Granted {
		p.EnableNotifications(ctx)
		return
	}

	if err := p.view.ShowNotification(ctx, data); err != nil {
		p.logger.WithContext(ctx).Error("failed to show local notification",
			slog.String("error", err.Error()))
		p.present([]event.Event{event.Error(event.NotificationFailed, "Notification Failed", "The browser could not display the notification.")})
		return
	}

	p.append(ctx, data, SourceLocalTest)
}

// Generate asks the AI generator for a new body.
func (p *Page) Generate(ctx context.Context, values editor.Values) {
	p.values = values
	out := p.editor.Generate(ctx, values)
	p.view.SetFieldErrors(out.Errors)

	if out.Generated {
		p.values = out.Values
		p.template = p.editor.Change(out.Values)
		p.view.SetBody(out.Values.Body)
		p.renderPreview(ctx)
	}

	p.present(out.Events)
}

// EnableNotifications requests notification permission.
func (p *Page) EnableNotifications(ctx context.Context) {
	p.present(p.session.RequestPermission(ctx))
	p.view.SetPermission(p.session.Permission())
}

// Foreground handles a message delivered while the page is open.
func (p *Page) Foreground(ctx context.Context, payload notification.MessagePayload) {
	p.present(p.session.HandleForeground(ctx, payload))
}

// SendPush sends the current values as a real push to this tab's token.
func (p *Page) SendPush(ctx context.Context, values editor.Values) {
	p.values = values
	data, errs := p.editor.Submit(values)
	p.view.SetFieldErrors(errs)
	if !errs.OK() {
		return
	}

	token := p.session.Token()
	if p.pusher == nil || token == "" {
		p.present([]event.Event{event.Warning(event.PushFailed, "Push Unavailable", "Enable notifications and configure FCM credentials to send a push.")})
		return
	}

	id, err := p.pusher.Send(ctx, token, data)
	switch {
	case errors.Is(err, push.ErrDisabled):
		p.present([]event.Event{event.Warning(event.PushFailed, "Push Unavailable", "Server-side push is not configured.")})
	case err != nil:
		p.logger.WithContext(ctx).Error("failed to send push", slog.String("error", err.Error()))
		p.present([]event.Event{event.Error(event.PushFailed, "Push Failed", "Could not send the push notification.")})
	default:
		p.present([]event.Event{event.Info(event.PushSent, "Push Sent", id)})
	}
}

// RefreshLog re-renders the log so relative times stay current.
func (p *Page) RefreshLog(ctx context.Context) {
	p.renderLog(ctx)
}

// Template returns the live template.
func (p *Page) Template() notification.Data {
	return p.template
}

// Entries returns the logged notifications, newest first.
func (p *Page) Entries() []notification.Data {
	return p.log.Entries()
}

func (p *Page) Permission() session.Permission {
	return p.session.Permission()
}

// receive is the session's foreground handler.
func (p *Page) receive(ctx context.Context, data notification.Data) {
	p.append(ctx, data, SourceForeground)
}

func (p *Page) append(ctx context.Context, data notification.Data, source string) {
	entry := p.log.Append(data)
	metrics.NotificationsLogged.WithLabelValues(source).Inc()
	p.logger.WithContext(ctx).Debug("notification logged",
		slog.String("source", source),
		slog.String("timestamp", entry.Timestamp))
	p.renderLog(ctx)
}

func (p *Page) present(events []event.Event) {
	for _, e := range events {
		if e.Toast {
			p.view.Toast(e)
		}
	}
}

func (p *Page) renderPreview(ctx context.Context) {
	html, err := preview.HTML(p.template)
	if err != nil {
		p.logger.WithContext(ctx).Error("failed to render preview", slog.String("error", err.Error()))
		return
	}
	p.view.RenderPreview(html)
}

func (p *Page) renderLog(ctx context.Context) {
	html, err := preview.LogHTML(p.log.Entries(), p.now())
	if err != nil {
		p.logger.WithContext(ctx).Error("failed to render log", slog.String("error", err.Error()))
		return
	}
	p.view.RenderLog(html)
}
