package bridge

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/eternisai/firebase-notifier/internal/logger"
	"github.com/eternisai/firebase-notifier/internal/page"
)

// Handler upgrades browser tabs to bridge connections.
type Handler struct {
	hub      *Hub
	deps     page.Deps
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewHandler creates the /ws handler. deps is copied for every page; its
// View and Platform are replaced by the connection. checkOrigin may be nil
// to accept same-host requests only.
func NewHandler(hub *Hub, deps page.Deps, checkOrigin func(r *http.Request) bool, logger *logger.Logger) *Handler {
	return &Handler{
		hub:  hub,
		deps: deps,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin,
		},
		logger: logger,
	}
}

// Connect handles GET /ws.
func (h *Handler) Connect(c *gin.Context) {
	log := h.logger.WithContext(c.Request.Context()).WithComponent("bridge_websocket")

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := newConn(ws, h.logger)
	deps := h.deps
	deps.View = conn
	deps.Platform = conn
	p := page.New(deps)

	h.hub.Register(conn, p)
	defer h.hub.Unregister(conn)

	log.Info("websocket connection established", slog.String("conn_id", conn.ID()))
	conn.Serve(c.Request.Context(), p)
	log.Info("websocket connection finished", slog.String("conn_id", conn.ID()))
}
