package worker

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/eternisai/firebase-notifier/internal/config"
)

// SDKVersion is the Firebase JS SDK loaded by the worker.
const SDKVersion = "10.12.2"

//go:embed templates/firebase-messaging-sw.js.tmpl
var templateFS embed.FS

var scriptTemplate = template.Must(template.ParseFS(templateFS, "templates/firebase-messaging-sw.js.tmpl"))

type scriptView struct {
	Config     string
	Defaults   string
	ClickURL   string
	SDKVersion string
}

// Script renders the worker with the Firebase web config embedded as JSON.
func Script(cfg config.Firebase) ([]byte, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal firebase config: %w", err)
	}
	defaultsJSON, err := json.Marshal(DefaultDisplay)
	if err != nil {
		return nil, fmt.Errorf("marshal worker defaults: %w", err)
	}
	clickJSON, err := json.Marshal(ClickURL)
	if err != nil {
		return nil, fmt.Errorf("marshal click url: %w", err)
	}

	var buf bytes.Buffer
	err = scriptTemplate.Execute(&buf, scriptView{
		Config:     string(configJSON),
		Defaults:   string(defaultsJSON),
		ClickURL:   string(clickJSON),
		SDKVersion: SDKVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("render worker script: %w", err)
	}
	return buf.Bytes(), nil
}
