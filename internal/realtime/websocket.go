package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/partyarcade/internal/model"
)

const (
	pongWait       = 60 * time.Second
	wsPingPeriod   = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CommandHandler consumes commands sent by WebSocket clients
type CommandHandler interface {
	HandleCommand(ctx context.Context, code model.LobbyCode, playerID model.PlayerID, data []byte)
}

// ServeWS upgrades the request and streams a lobby's events to one player.
// Text messages from the client are passed to handler.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID, handler CommandHandler, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := NewClient(playerID, "websocket")
	if !hub.Register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "lobby closed"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go writePump(conn, client)
	readPump(r.Context(), conn, hub, client, handler)
}

func readPump(ctx context.Context, conn *websocket.Conn, hub *Hub, client *Client, handler CommandHandler) {
	defer func() {
		hub.Unregister(client)
		_ = conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		handler.HandleCommand(ctx, hub.lobbyCode, client.playerID, data)
	}
}

func writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame.Data); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
