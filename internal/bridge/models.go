package bridge

import (
	"encoding/json"
	"errors"
)

// ErrClosed is returned by calls pending when the connection closes.
var ErrClosed = errors.New("bridge connection closed")

// Message types on the wire.
const (
	// TypeCall asks the browser to perform an action and reply with the same id.
	TypeCall = "call"
	// TypeReply carries the result of a call.
	TypeReply = "reply"
	// TypeUpdate is a one-way view update sent to the browser.
	TypeUpdate = "update"
	// TypeEvent is a user or messaging event sent by the browser.
	TypeEvent = "event"
)

// Calls handled by the browser shell.
const (
	CallSupported         = "supported"
	CallPermission        = "permission"
	CallRequestPermission = "requestPermission"
	CallRegisterWorker    = "registerWorker"
	CallGetToken          = "getToken"
	CallSubscribe         = "subscribe"
	CallShowNotification  = "showNotification"
)

// Updates rendered by the browser shell.
const (
	UpdateValues      = "values"
	UpdateBody        = "body"
	UpdateFieldErrors = "fieldErrors"
	UpdatePreview     = "preview"
	UpdateLog         = "log"
	UpdatePermission  = "permission"
	UpdateToast       = "toast"
	UpdateUnsubscribe = "unsubscribe"
)

// Events sent by the browser shell.
const (
	EventChange     = "change"
	EventSend       = "send"
	EventGenerate   = "generate"
	EventEnable     = "enable"
	EventPush       = "push"
	EventForeground = "foreground"
)

// Message is the single envelope used in both directions.
type Message struct {
	Type  string          `json:"type"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

type registerWorkerArgs struct {
	Path string `json:"path"`
}

type getTokenArgs struct {
	VAPIDKey     string `json:"vapidKey"`
	Registration string `json:"registration"`
}

// localNotification mirrors the browser Notification constructor arguments.
type localNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Image string `json:"image,omitempty"`
}
