// Package event defines the user-facing outcomes returned by page, session
// and editor operations. Callers decide how to present them.
package event

// Level is the severity of an event.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Kind identifies what happened.
type Kind string

const (
	PermissionGranted  Kind = "permission_granted"
	PermissionDenied   Kind = "permission_denied"
	TokenRegistered    Kind = "token_registered"
	TokenUnavailable   Kind = "token_unavailable"
	SetupFailed        Kind = "setup_failed"
	MessageReceived    Kind = "message_received"
	NotificationShown  Kind = "notification_shown"
	NotificationFailed Kind = "notification_failed"
	GenerationFailed   Kind = "generation_failed"
	PushSent           Kind = "push_sent"
	PushFailed         Kind = "push_failed"
	Unsupported        Kind = "unsupported"
)

// Event is one outcome of an operation.
type Event struct {
	Kind        Kind   `json:"kind"`
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// Toast marks events meant to be surfaced to the user. Others are informational.
	Toast bool `json:"toast"`
}

// Info builds a toast-worthy informational event.
func Info(kind Kind, title, description string) Event {
	return Event{Kind: kind, Level: LevelInfo, Title: title, Description: description, Toast: true}
}

// Warning builds a warning toast.
func Warning(kind Kind, title, description string) Event {
	return Event{Kind: kind, Level: LevelWarning, Title: title, Description: description, Toast: true}
}

// Error builds an error toast.
func Error(kind Kind, title, description string) Event {
	return Event{Kind: kind, Level: LevelError, Title: title, Description: description, Toast: true}
}

// Quiet builds an event that is recorded but not shown.
func Quiet(kind Kind, title string) Event {
	return Event{Kind: kind, Level: LevelInfo, Title: title}
}

// Has reports whether events contains one of kind.
func Has(events []Event, kind Kind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
