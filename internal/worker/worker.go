// Package worker serves the background messaging worker and models how it
// displays push events.
package worker

import (
	"encoding/json"
)

// Defaults are used for any field a push payload leaves out.
type Defaults struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
}

// DefaultDisplay holds the built-in defaults shared by the script and ForPush.
var DefaultDisplay = Defaults{
	Title: "Firebase Notifier",
	Body:  "You have a new notification.",
	Icon:  "https://placehold.co/192x192.png",
	Badge: "https://placehold.co/96x96.png",
}

// ClickURL is opened when a notification is clicked.
const ClickURL = "/"

// Shown is a notification displayed by the worker.
type Shown struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
}

// Outcome is what happens to one push event.
type Outcome string

const (
	// OutcomeIgnored: the push carried no data.
	OutcomeIgnored Outcome = "ignored"
	// OutcomeDelegated: a notification message, shown or forwarded by the messaging SDK.
	OutcomeDelegated Outcome = "delegated"
	// OutcomeForeground: a page is visible, the worker shows nothing.
	OutcomeForeground Outcome = "foreground"
	// OutcomeShown: the worker displays the notification itself.
	OutcomeShown Outcome = "shown"
)

// ForPush returns what the worker does with a push event. present reports
// whether the event had data; visible whether a window of the app is visible.
// Payloads that are not JSON, or are JSON null, are shown as raw text under
// the default title. Other non-notification payloads show the defaults.
func ForPush(data []byte, present, visible bool) (Shown, Outcome) {
	if !present {
		return Shown{}, OutcomeIgnored
	}

	shown := Shown{
		Title: DefaultDisplay.Title,
		Body:  DefaultDisplay.Body,
		Icon:  DefaultDisplay.Icon,
		Badge: DefaultDisplay.Badge,
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil || payload == nil {
		shown.Body = string(data)
	} else if obj, ok := payload.(map[string]any); ok && truthy(obj["notification"]) {
		return Shown{}, OutcomeDelegated
	}

	if visible {
		return Shown{}, OutcomeForeground
	}
	return shown, OutcomeShown
}

// truthy follows JavaScript truthiness for decoded JSON values.
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// ClickAction is what happens when a shown notification is clicked.
type ClickAction struct {
	Close bool   `json:"close"`
	Open  string `json:"open"`
}

// OnClick closes the notification and opens the application root.
func OnClick() ClickAction {
	return ClickAction{Close: true, Open: ClickURL}
}
