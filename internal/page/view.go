package page

import (
	"context"

	"github.com/eternisai/firebase-notifier/internal/editor"
	"github.com/eternisai/firebase-notifier/internal/event"
	"github.com/eternisai/firebase-notifier/internal/notification"
	"github.com/eternisai/firebase-notifier/internal/session"
)

// View is the browser surface a page renders into.
type View interface {
	SetValues(values editor.Values)
	SetBody(body string)
	SetFieldErrors(errs editor.FieldErrors)
	RenderPreview(html string)
	RenderLog(html string)
	SetPermission(permission session.Permission)
	Toast(e event.Event)
	// ShowNotification fires a local notification through the browser API.
	ShowNotification(ctx context.Context, data notification.Data) error
}

// Pusher sends a notification to a device token through the messaging service.
type Pusher interface {
	Send(ctx context.Context, token string, data notification.Data) (string, error)
}
