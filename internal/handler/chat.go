package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/muthakira-dev/muthakira/internal/chat"
	"github.com/muthakira-dev/muthakira/internal/logger"
)

// ChatHistory handles GET /api/chat/history, serving the most recent
// persisted messages.
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.hub.History(h.cfg.Public.Chat.HistoryLimit))
}

// ChatWS upgrades GET /ws to a websocket and runs the connection's session
// until the transport drops. The connection id is assigned here, not by the
// client.
func (h *Handler) ChatWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.originAllowed,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logger.Log.Debug("websocket upgrade failed", "error", err)
		return
	}

	chat.NewSession(h.hub, conn, uuid.NewString()).Run()
}

func (h *Handler) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser client
	}
	for _, allowed := range h.cfg.Public.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
