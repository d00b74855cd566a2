// Package web serves the browser shell that the bridge drives.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eternisai/firebase-notifier/internal/config"
	"github.com/eternisai/firebase-notifier/internal/errors"
	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/worker"
)

//go:embed templates/index.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexView struct {
	SDKVersion     string
	FirebaseConfig template.JS
	Tones          []string
}

// Static returns the embedded static assets rooted at the static directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("embedded static assets: %v", err))
	}
	return http.FS(sub)
}

// Handler renders the index page.
type Handler struct {
	firebase config.Firebase
	tones    []string
	logger   *logger.Logger
}

func NewHandler(firebase config.Firebase, tones []string, logger *logger.Logger) *Handler {
	return &Handler{
		firebase: firebase,
		tones:    tones,
		logger:   logger.WithComponent("web"),
	}
}

// Render writes the index page.
func (h *Handler) Render() ([]byte, error) {
	configJSON, err := json.Marshal(h.firebase)
	if err != nil {
		return nil, fmt.Errorf("marshal firebase config: %w", err)
	}

	var buf bytes.Buffer
	err = indexTemplate.Execute(&buf, indexView{
		SDKVersion:     worker.SDKVersion,
		FirebaseConfig: template.JS(configJSON),
		Tones:          h.tones,
	})
	if err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return buf.Bytes(), nil
}

// Index handles GET /.
func (h *Handler) Index(c *gin.Context) {
	page, err := h.Render()
	if err != nil {
		h.logger.WithContext(c.Request.Context()).Error("failed to render index", slog.String("error", err.Error()))
		errors.AbortWithInternal(c, "Failed to render page", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
