// Package editor validates notification templates captured from the form
// and drives AI message generation for the body field.
package editor

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/notification"
)

// MinLayoutLength is the minimum length of a layout description sent to the generator.
const MinLayoutLength = 10

// Field names as used by the form.
const (
	FieldTitle          = "title"
	FieldBody           = "body"
	FieldIconURL        = "iconUrl"
	FieldImageURL       = "imageUrl"
	FieldLayoutTemplate = "layoutTemplate"
	FieldTone           = "tone"
)

// Validation messages.
const (
	MsgTitleRequired  = "Title is required."
	MsgBodyRequired   = "Body is required."
	MsgInvalidURL     = "Please enter a valid URL."
	MsgLayoutRequired = "Layout description is required to generate a message."
	MsgLayoutTooShort = "Please provide a more descriptive layout."
)

// Values is the full set of form fields.
type Values struct {
	Title          string `json:"title"`
	Body           string `json:"body"`
	IconURL        string `json:"iconUrl"`
	ImageURL       string `json:"imageUrl"`
	LayoutTemplate string `json:"layoutTemplate"`
	Tone           string `json:"tone"`
}

// DefaultValues returns the initial form state from the configured template.
func DefaultValues(t config.Template) Values {
	return Values{
		Title:          t.Title,
		Body:           t.Body,
		IconURL:        t.IconURL,
		ImageURL:       t.ImageURL,
		LayoutTemplate: t.LayoutTemplate,
		Tone:           t.Tone,
	}
}

// Data returns the notification described by the form.
func (v Values) Data() notification.Data {
	return notification.Data{
		Title:    v.Title,
		Body:     v.Body,
		IconURL:  v.IconURL,
		ImageURL: v.ImageURL,
	}
}

// FieldErrors maps field names to validation messages.
type FieldErrors map[string]string

// OK reports whether there are no errors.
func (e FieldErrors) OK() bool {
	return len(e) == 0
}

// Validate checks the fields required to send a notification. The layout
// description is not checked here.
func (v Values) Validate() FieldErrors {
	errs := FieldErrors{}
	if v.Title == "" {
		errs[FieldTitle] = MsgTitleRequired
	}
	if v.Body == "" {
		errs[FieldBody] = MsgBodyRequired
	}
	if !optionalURL(v.IconURL) {
		errs[FieldIconURL] = MsgInvalidURL
	}
	if !optionalURL(v.ImageURL) {
		errs[FieldImageURL] = MsgInvalidURL
	}
	return errs
}

// ValidateForGenerate checks the layout description used by the generator.
func (v Values) ValidateForGenerate() FieldErrors {
	errs := FieldErrors{}
	switch {
	case v.LayoutTemplate == "":
		errs[FieldLayoutTemplate] = MsgLayoutRequired
	case utf8.RuneCountInString(v.LayoutTemplate) < MinLayoutLength:
		errs[FieldLayoutTemplate] = MsgLayoutTooShort
	}
	return errs
}

// hostSchemes are the URL schemes that cannot be parsed without a host.
var hostSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "ftp": true,
}

// optionalURL accepts the empty string or an absolute URL: any scheme, plus a
// host for web schemes. mailto:, data: and similar URLs are accepted.
// Whitespace is rejected.
func optionalURL(raw string) bool {
	if raw == "" {
		return true
	}
	if strings.ContainsAny(raw, " \t\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	if hostSchemes[strings.ToLower(u.Scheme)] && u.Host == "" {
		return false
	}
	return true
}
