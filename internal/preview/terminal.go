package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eternisai/firebase-notifier/internal/notification"
)

var (
	accent = lipgloss.Color("#F59E0B")
	fg     = lipgloss.Color("#E8E6E3")
	dim    = lipgloss.Color("#6B7280")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2).
			Width(56)

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(fg)
	bodyStyle        = lipgloss.NewStyle().Foreground(dim)
	placeholderStyle = bodyStyle.Italic(true)
	stampStyle       = lipgloss.NewStyle().Foreground(dim)
	mediaStyle       = lipgloss.NewStyle().Foreground(accent)
)

// RenderTerminal renders the mock for a terminal. Images are shown as links.
func RenderTerminal(d notification.Data) string {
	v := newPreviewView(d)

	var b strings.Builder
	if v.ImageURL != "" {
		b.WriteString(mediaStyle.Render("[image] " + v.ImageURL))
		b.WriteString("\n")
	}

	icon := "(bell)"
	if v.IconURL != "" {
		icon = "[icon] " + v.IconURL
	}
	b.WriteString(mediaStyle.Render(icon))
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(v.Title), "  ", stampStyle.Render("now")))
	b.WriteString("\n")

	if v.BodyPlaceholder {
		b.WriteString(placeholderStyle.Render(v.Body))
	} else {
		b.WriteString(bodyStyle.Render(v.Body))
	}

	return cardStyle.Render(b.String())
}
