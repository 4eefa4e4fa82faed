package ws

import (
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/friendscore/backend/internal/realtime"
	"github.com/friendscore/backend/internal/transport/http/middleware"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket on
// /ws/{topic}. Auth is done via ?token=xxx query param (WebSocket can't send
// headers); the credential is validated once and the resolved user ID is
// bound for the connection's lifetime.
func ServeWS(hub *Hub, jwtSecret string) http.HandlerFunc {
	secret := []byte(jwtSecret)
	return func(w http.ResponseWriter, r *http.Request) {
		topic, ok := realtime.ParseTopic(r.PathValue("topic"))
		if !ok {
			http.Error(w, "unknown topic", http.StatusNotFound)
			return
		}

		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := middleware.ParseUserID(tokenStr, secret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			hub.logger.Warn("websocket accept failed", zap.Error(err))
			return
		}

		client := NewClient(hub, conn, userID, topic)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
