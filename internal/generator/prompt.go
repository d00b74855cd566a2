package generator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// Prompt renders the copywriter prompt for a request.
type Prompt struct {
	tmpl *template.Template
}

// NewPrompt parses a text/template that may reference .LayoutTemplate and .Tone.
func NewPrompt(text string) (*Prompt, error) {
	tmpl, err := template.New("prompt").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Prompt{tmpl: tmpl}, nil
}

// Render produces the prompt text for req.
func (p *Prompt) Render(req Request) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

var errEmptyOutput = errors.New("provider returned no message copy")

// decodeMessageCopy extracts the copy from a provider response. Structured
// responses carry it under messageCopy; anything else is plain text. A text
// that is exactly one JSON string is unwrapped; quotes inside the copy are kept.
func decodeMessageCopy(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	switch {
	case strings.HasPrefix(text, "{"):
		var out Output
		if err := json.Unmarshal([]byte(text), &out); err == nil {
			text = strings.TrimSpace(out.MessageCopy)
		} else if strings.Contains(text, `"messageCopy"`) {
			// Truncated structured output, not copy.
			return "", fmt.Errorf("decode structured output: %w", err)
		}
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal([]byte(text), &s); err == nil {
			text = strings.TrimSpace(s)
		}
	}

	if text == "" {
		return "", errEmptyOutput
	}
	return text, nil
}
