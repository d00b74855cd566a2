package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Notifier holds the editor defaults and the AI prompt.
type Notifier struct {
	Template Template `yaml:"template"`
	Tones    []string `yaml:"tones"`
	// Prompt is a text/template rendered with .LayoutTemplate and .Tone.
	Prompt string `yaml:"prompt"`
}

// Template is the initial state of the editor form.
type Template struct {
	Title          string `yaml:"title"`
	Body           string `yaml:"body"`
	IconURL        string `yaml:"icon_url"`
	ImageURL       string `yaml:"image_url"`
	LayoutTemplate string `yaml:"layout_template"`
	Tone           string `yaml:"tone"`
}

const DefaultPrompt = `You are an expert copywriter specializing in creating notification messages.

Based on the provided layout template and desired tone, generate compelling message copy for a notification.

Layout Template: {{.LayoutTemplate}}
Tone: {{.Tone}}

Message Copy:`

// DefaultNotifier returns the built-in defaults used when no config file is present.
func DefaultNotifier() *Notifier {
	return &Notifier{
		Template: Template{
			Title:          "Welcome to Firebase Notifier!",
			Body:           "This is a sample notification. Edit the template to get started.",
			IconURL:        "https://placehold.co/192x192.png",
			ImageURL:       "https://placehold.co/600x400.png",
			LayoutTemplate: "A notification with a title, body, and large feature image.",
			Tone:           "Friendly",
		},
		Tones:  []string{"Friendly", "Formal", "Urgent", "Playful"},
		Prompt: DefaultPrompt,
	}
}

// Validate fills empty fields with defaults and checks the rest.
func (n *Notifier) Validate() error {
	def := DefaultNotifier()

	if len(n.Tones) == 0 {
		n.Tones = def.Tones
	}
	if strings.TrimSpace(n.Prompt) == "" {
		n.Prompt = def.Prompt
	}
	if n.Template.Title == "" && n.Template.Body == "" {
		n.Template = def.Template
	}
	if n.Template.Tone == "" {
		n.Template.Tone = n.Tones[0]
	}

	found := false
	for _, tone := range n.Tones {
		if tone == n.Template.Tone {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("default tone %q is not one of the configured tones %v", n.Template.Tone, n.Tones)
	}

	for _, u := range []string{n.Template.IconURL, n.Template.ImageURL} {
		if u == "" {
			continue
		}
		if parsed, err := url.Parse(u); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return errors.New("template icon_url and image_url must be absolute URLs")
		}
	}

	return nil
}
