package page

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/event"
	"github.com/eternisai/firebase-notifier/internal/generator"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/notification"
	"github.com/eternisai/firebase-notifier/internal/push"
	"github.com/eternisai/firebase-notifier/internal/session"
)

type fakeView struct {
	values      []editor.Values
	bodies      []string
	fieldErrors []editor.FieldErrors
	previews    []string
	logs        []string
	permissions []session.Permission
	toasts      []event.Event
	shown       []notification.Data
	showErr     error
}

func (v *fakeView) SetValues(values editor.Values) { v.values = append(v.values, values) }
func (v *fakeView) SetBody(body string)            { v.bodies = append(v.bodies, body) }
func (v *fakeView) SetFieldErrors(errs editor.FieldErrors) {
	v.fieldErrors = append(v.fieldErrors, errs)
}
func (v *fakeView) RenderPreview(html string)          { v.previews = append(v.previews, html) }
func (v *fakeView) RenderLog(html string)              { v.logs = append(v.logs, html) }
func (v *fakeView) SetPermission(p session.Permission) { v.permissions = append(v.permissions, p) }
func (v *fakeView) Toast(e event.Event)                { v.toasts = append(v.toasts, e) }

func (v *fakeView) ShowNotification(_ context.Context, data notification.Data) error {
	if v.showErr != nil {
		return v.showErr
	}
	v.shown = append(v.shown, data)
	return nil
}

func (v *fakeView) lastLog() string {
	if len(v.logs) == 0 {
		return ""
	}
	return v.logs[len(v.logs)-1]
}

type fakePlatform struct {
	current     session.Permission
	requestResp session.Permission
	token       string
	requests    int
}

func (f *fakePlatform) Supported(context.Context) (bool, error) { return true, nil }
func (f *fakePlatform) CurrentPermission(context.Context) (session.Permission, error) {
	return f.current, nil
}
func (f *fakePlatform) RequestPermission(context.Context) (session.Permission, error) {
	f.requests++
	return f.requestResp, nil
}
func (f *fakePlatform) RegisterWorker(context.Context, string) (session.Registration, error) {
	return "reg", nil
}
func (f *fakePlatform) GetToken(context.Context, string, session.Registration) (string, error) {
	return f.token, nil
}
func (f *fakePlatform) Subscribe(context.Context) (session.Unsubscribe, error) {
	return func() {}, nil
}

type fakeGenerator struct {
	result generator.Result
}

func (f *fakeGenerator) Generate(context.Context, generator.Request) generator.Result {
	return f.result
}

type fakePusher struct {
	tokens []string
	id     string
	err    error
}

func (f *fakePusher) Send(_ context.Context, token string, _ notification.Data) (string, error) {
	f.tokens = append(f.tokens, token)
	return f.id, f.err
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestPage(t *testing.T, platform *fakePlatform, gen *fakeGenerator, pusher Pusher) (*Page, *fakeView) {
	t.Helper()
	view := &fakeView{}
	if gen == nil {
		gen = &fakeGenerator{}
	}
	p := New(Deps{
		View:          view,
		Platform:      platform,
		SessionConfig: session.Config{WorkerPath: session.WorkerPath, VAPIDKey: "vapid"},
		Generator:     gen,
		Pusher:        pusher,
		Template:      config.DefaultNotifier().Template,
		Logger:        logger.Discard(),
	}, WithClock(func() time.Time { return fixedNow }))
	p.Open(context.Background())
	return p, view
}

func validValues() editor.Values {
	return editor.DefaultValues(config.DefaultNotifier().Template)
}

func TestOpenRendersInitialView(t *testing.T) {
	_, view := newTestPage(t, &fakePlatform{current: session.Default}, nil, nil)

	require.Len(t, view.values, 1)
	assert.Equal(t, "Welcome to Firebase Notifier!", view.values[0].Title)
	require.NotEmpty(t, view.previews)
	assert.Contains(t, view.previews[0], "Welcome to Firebase Notifier!")
	assert.Contains(t, view.lastLog(), "No notifications yet")
	assert.Equal(t, []session.Permission{session.Loading, session.Default}, view.permissions)
}

func TestChangeTemplateRerendersPreview(t *testing.T) {
	p, view := newTestPage(t, &fakePlatform{current: session.Default}, nil, nil)
	values := validValues()
	values.Title = "Flash sale"
	values.Body = ""

	p.ChangeTemplate(context.Background(), values)

	assert.Equal(t, "Flash sale", p.Template().Title)
	assert.Equal(t, "", p.Template().Body)
	last := view.previews[len(view.previews)-1]
	assert.Contains(t, last, "Flash sale")
	assert.Contains(t, last, "Notification body will appear here...")
}

func TestSendTestWithoutPermissionRequestsPermission(t *testing.T) {
	platform := &fakePlatform{current: session.Denied, requestResp: session.Denied}
	p, view := newTestPage(t, platform, nil, nil)

	p.SendTest(context.Background(), validValues())

	assert.Equal(t, 1, platform.requests)
	assert.Empty(t, view.shown)
	assert.Empty(t, p.Entries())
	assert.True(t, event.Has(view.toasts, event.PermissionDenied))
}

func TestSendTestGranted(t *testing.T) {
	platform := &fakePlatform{current: session.Granted, token: "tok"}
	p, view := newTestPage(t, platform, nil, nil)
	values := validValues()
	values.IconURL = ""

	p.SendTest(context.Background(), values)

	require.Len(t, view.shown, 1)
	assert.Equal(t, "", view.shown[0].IconURL)
	require.Len(t, p.Entries(), 1)
	entry := p.Entries()[0]
	assert.Equal(t, values.Title, entry.Title)
	assert.Equal(t, notification.FormatTimestamp(fixedNow), entry.Timestamp)
	assert.Contains(t, view.lastLog(), values.Title)
	assert.Zero(t, platform.requests)
}

func TestSendTestInvalidValues(t *testing.T) {
	platform := &fakePlatform{current: session.Granted, token: "tok"}
	p, view := newTestPage(t, platform, nil, nil)
	values := validValues()
	values.Body = ""

	p.SendTest(context.Background(), values)

	assert.Empty(t, view.shown)
	assert.Empty(t, p.Entries())
	require.NotEmpty(t, view.fieldErrors)
	assert.Equal(t, editor.FieldErrors{editor.FieldBody: editor.MsgBodyRequired}, view.fieldErrors[len(view.fieldErrors)-1])
}

func TestSendTestShowFailure(t *testing.T) {
	platform := &fakePlatform{current: session.Granted, token: "tok"}
	p, view := newTestPage(t, platform, nil, nil)
	view.showErr = errors.New("connection closed")

	p.SendTest(context.Background(), validValues())

	assert.Empty(t, p.Entries())
	assert.True(t, event.Has(view.toasts, event.NotificationFailed))
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{result: generator.Result{Success: true, Message: "Summer is here."}}
	p, view := newTestPage(t, &fakePlatform{current: session.Default}, gen, nil)

	p.Generate(context.Background(), validValues())

	assert.Equal(t, []string{"Summer is here."}, view.bodies)
	assert.Equal(t, "Summer is here.", p.Template().Body)
	assert.Contains(t, view.previews[len(view.previews)-1], "Summer is here.")
}

func TestGenerateFailure(t *testing.T) {
	gen := &fakeGenerator{result: generator.Result{Message: generator.FailureMessage}}
	p, view := newTestPage(t, &fakePlatform{current: session.Default}, gen, nil)
	before := p.Template().Body

	p.Generate(context.Background(), validValues())

	assert.Empty(t, view.bodies)
	assert.Equal(t, before, p.Template().Body)
	assert.True(t, event.Has(view.toasts, event.GenerationFailed))
}

func TestForegroundAppendsToLog(t *testing.T) {
	platform := &fakePlatform{current: session.Granted, token: "tok"}
	p, view := newTestPage(t, platform, nil, nil)

	p.Foreground(context.Background(), notification.MessagePayload{
		Notification: &notification.PayloadNotification{Title: "Incoming", Body: "Hello"},
	})

	require.Len(t, p.Entries(), 1)
	assert.Equal(t, "Incoming", p.Entries()[0].Title)
	assert.Contains(t, view.lastLog(), "Incoming")
	require.True(t, event.Has(view.toasts, event.MessageReceived))
}

func TestForegroundIgnoredWithoutPermission(t *testing.T) {
	p, _ := newTestPage(t, &fakePlatform{current: session.Default}, nil, nil)

	p.Foreground(context.Background(), notification.MessagePayload{
		Notification: &notification.PayloadNotification{Title: "Incoming"},
	})

	assert.Empty(t, p.Entries())
}

func TestEnableNotifications(t *testing.T) {
	platform := &fakePlatform{current: session.Default, requestResp: session.Granted, token: "tok"}
	p, view := newTestPage(t, platform, nil, nil)

	p.EnableNotifications(context.Background())

	assert.Equal(t, session.Granted, p.Permission())
	assert.Equal(t, session.Granted, view.permissions[len(view.permissions)-1])
}

func TestSendPush(t *testing.T) {
	tests := []struct {
		name     string
		platform *fakePlatform
		pusher   *fakePusher
		want     event.Kind
		level    event.Level
	}{
		{
			name:     "sent",
			platform: &fakePlatform{current: session.Granted, token: "tok"},
			pusher:   &fakePusher{id: "msg-1"},
			want:     event.PushSent,
			level:    event.LevelInfo,
		},
		{
			name:     "no token",
			platform: &fakePlatform{current: session.Default},
			pusher:   &fakePusher{id: "msg-1"},
			want:     event.PushFailed,
			level:    event.LevelWarning,
		},
		{
			name:     "disabled",
			platform: &fakePlatform{current: session.Granted, token: "tok"},
			pusher:   &fakePusher{err: push.ErrDisabled},
			want:     event.PushFailed,
			level:    event.LevelWarning,
		},
		{
			name:     "fcm failure",
			platform: &fakePlatform{current: session.Granted, token: "tok"},
			pusher:   &fakePusher{err: errors.New("unavailable")},
			want:     event.PushFailed,
			level:    event.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, view := newTestPage(t, tt.platform, nil, tt.pusher)

			p.SendPush(context.Background(), validValues())

			require.NotEmpty(t, view.toasts)
			last := view.toasts[len(view.toasts)-1]
			assert.Equal(t, tt.want, last.Kind)
			assert.Equal(t, tt.level, last.Level)
		})
	}
}

func TestSendPushWithoutPusher(t *testing.T) {
	p, view := newTestPage(t, &fakePlatform{current: session.Granted, token: "tok"}, nil, nil)

	p.SendPush(context.Background(), validValues())

	assert.True(t, event.Has(view.toasts, event.PushFailed))
}

func TestRefreshLogUsesClock(t *testing.T) {
	now := fixedNow
	view := &fakeView{}
	p := New(Deps{
		View:      view,
		Platform:  &fakePlatform{current: session.Granted, token: "tok"},
		Generator: &fakeGenerator{},
		Template:  config.DefaultNotifier().Template,
		Logger:    logger.Discard(),
	}, WithClock(func() time.Time { return now }))
	p.Open(context.Background())
	p.SendTest(context.Background(), validValues())

	now = fixedNow.Add(5 * time.Minute)
	p.RefreshLog(context.Background())

	assert.Contains(t, view.lastLog(), "5 minutes ago")
}
