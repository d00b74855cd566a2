// Package preview renders notifications into visual mocks: HTML fragments
// for the browser and styled text for terminals.
package preview

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/eternisai/firebase-notifier/internal/notification"
)

// Placeholders shown while the template is incomplete.
const (
	PlaceholderTitle = "Notification Title"
	PlaceholderBody  = "Notification body will appear here..."
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type previewView struct {
	Title           string
	Body            string
	BodyPlaceholder bool
	IconURL         string
	ImageURL        string
}

type logRow struct {
	When  string
	Title string
	Body  string
}

type logView struct {
	Rows []logRow
}

func newPreviewView(d notification.Data) previewView {
	v := previewView{
		Title:    d.Title,
		Body:     d.Body,
		IconURL:  d.IconURL,
		ImageURL: d.ImageURL,
	}
	if v.Title == "" {
		v.Title = PlaceholderTitle
	}
	if v.Body == "" {
		v.Body = PlaceholderBody
		v.BodyPlaceholder = true
	}
	return v
}

// Render writes the HTML mock of d to w.
func Render(w io.Writer, d notification.Data) error {
	return templates.ExecuteTemplate(w, "preview", newPreviewView(d))
}

// RenderLog writes the notification log card to w. Relative times are
// computed against now.
func RenderLog(w io.Writer, entries []notification.Data, now time.Time) error {
	view := logView{Rows: make([]logRow, 0, len(entries))}
	for _, e := range entries {
		view.Rows = append(view.Rows, logRow{
			When:  notification.TimeAgo(e.Timestamp, now),
			Title: e.Title,
			Body:  e.Body,
		})
	}
	return templates.ExecuteTemplate(w, "log", view)
}

// HTML renders the preview to a string.
func HTML(d notification.Data) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LogHTML renders the log card to a string.
func LogHTML(entries []notification.Data, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := RenderLog(&buf, entries, now); err != nil {
		return "", err
	}
	return buf.String(), nil
}
