package chat

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust CORS as needed, e.g., check r.Header.Get("Origin")
	},
}

// Hub tracks open websocket connections per report conversation
type Hub struct {
	conns map[string][]*websocket.Conn
	mutex sync.Mutex
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{conns: make(map[string][]*websocket.Conn)}
}

// HandleWebSocket upgrades the request and subscribes it to one report's
// conversation, keyed by the reportId query param.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	reportID := r.URL.Query().Get("reportId")
	if reportID == "" {
		conn.Close()
		return
	}

	h.mutex.Lock()
	h.conns[reportID] = append(h.conns[reportID], conn)
	h.mutex.Unlock()
	zap.S().Debugw("chat subscriber connected", "report_id", reportID)

	// Keep connection alive until the peer goes away
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}

	h.mutex.Lock()
	remaining := h.conns[reportID][:0]
	for _, c := range h.conns[reportID] {
		if c != conn {
			remaining = append(remaining, c)
		}
	}
	h.conns[reportID] = remaining
	h.mutex.Unlock()
	zap.S().Debugw("chat subscriber disconnected", "report_id", reportID)
}

// Broadcast pushes a message event to every subscriber of a report
func (h *Hub) Broadcast(reportID string, message interface{}) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	alive := h.conns[reportID][:0]
	for _, conn := range h.conns[reportID] {
		err := conn.WriteJSON(map[string]interface{}{
			"event": "new_message",
			"data":  message,
		})
		if err != nil {
			zap.S().Errorw("failed to push chat message", "report_id", reportID, "error", err)
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	h.conns[reportID] = alive
}
