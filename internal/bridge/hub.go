package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/metrics"
	"github.com/eternisai/firebase-notifier/internal/page"
)

// Hub tracks live connections and their pages.
type Hub struct {
	mu    sync.RWMutex
	pages map[*Conn]*page.Page

	cron   *cron.Cron
	logger *logger.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		pages:  make(map[*Conn]*page.Page),
		logger: logger.WithComponent("bridge_hub"),
	}
}

// Register adds a connection and the page it serves.
func (h *Hub) Register(c *Conn, p *page.Page) {
	h.mu.Lock()
	h.pages[c] = p
	count := len(h.pages)
	h.mu.Unlock()

	metrics.BridgeConnections.Inc()
	h.logger.Debug("connection registered",
		slog.String("conn_id", c.ID()),
		slog.Int("connections", count))
}

// Unregister removes a connection.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	_, ok := h.pages[c]
	delete(h.pages, c)
	h.mu.Unlock()

	if ok {
		metrics.BridgeConnections.Dec()
		h.logger.Debug("connection unregistered", slog.String("conn_id", c.ID()))
	}
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pages)
}

// RefreshAll queues a log refresh on every page and returns how many were queued.
func (h *Hub) RefreshAll() int {
	h.mu.RLock()
	targets := make(map[*Conn]*page.Page, len(h.pages))
	for c, p := range h.pages {
		targets[c] = p
	}
	h.mu.RUnlock()

	queued := 0
	for c, p := range targets {
		if c.Enqueue(p.RefreshLog) {
			queued++
		}
	}
	return queued
}

// StartRefresh runs RefreshAll on a cron schedule such as "@every 30s".
func (h *Hub) StartRefresh(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		n := h.RefreshAll()
		h.logger.Debug("log refresh queued", slog.Int("pages", n))
	}); err != nil {
		return fmt.Errorf("invalid log refresh schedule %q: %w", schedule, err)
	}
	c.Start()

	h.mu.Lock()
	h.cron = c
	h.mu.Unlock()

	h.logger.Info("log refresh scheduled", slog.String("schedule", schedule))
	return nil
}

// Shutdown stops the refresh schedule and closes every connection.
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	c := h.cron
	h.cron = nil
	conns := make([]*Conn, 0, len(h.pages))
	for conn := range h.pages {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
		}
	}

	for _, conn := range conns {
		conn.Close()
	}
	h.logger.Info("bridge hub stopped", slog.Int("closed_connections", len(conns)))
}
