package handlers

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

// AlertHub tracks connected clients (officers and citizens) by account id
// for SOS and notification delivery
type AlertHub struct {
	clients map[string]*websocket.Conn
	mutex   sync.Mutex
}

var alertHub = &AlertHub{
	clients: make(map[string]*websocket.Conn),
	mutex:   sync.Mutex{},
}

// HandleAlertsWebSocket registers a client for push alerts
func HandleAlertsWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "error", err)
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		conn.Close()
		return
	}

	alertHub.mutex.Lock()
	alertHub.clients[userID] = conn
	alertHub.mutex.Unlock()
	zap.S().Debugw("client connected to alerts", "user_id", userID)

	conn.SetCloseHandler(func(code int, text string) error {
		alertHub.mutex.Lock()
		delete(alertHub.clients, userID)
		alertHub.mutex.Unlock()
		zap.S().Debugw("client disconnected from alerts", "user_id", userID)
		return nil
	})

	// Keep connection alive
	for {
		if _, _, err := conn.NextReader(); err != nil {
			conn.Close()
			break
		}
	}
}

// sendAlertToUser pushes one event to a single connected client
func sendAlertToUser(userID, event string, data interface{}) {
	alertHub.mutex.Lock()
	conn, exists := alertHub.clients[userID]
	alertHub.mutex.Unlock()

	if !exists {
		return
	}
	err := conn.WriteJSON(map[string]interface{}{
		"event": event,
		"data":  data,
	})
	if err != nil {
		zap.S().Errorw("failed to push alert", "user_id", userID, "error", err)
		alertHub.mutex.Lock()
		delete(alertHub.clients, userID)
		alertHub.mutex.Unlock()
		conn.Close()
	}
}
