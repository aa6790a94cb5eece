package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/partyarcade/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents one connected SSE or WebSocket stream
type Client struct {
	playerID    model.PlayerID
	transport   string
	send        chan Frame
	connectedAt time.Time
}

// NewClient creates a new client for a player
func NewClient(playerID model.PlayerID, transport string) *Client {
	return &Client{
		playerID:    playerID,
		transport:   transport,
		send:        make(chan Frame, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// formatSSEMessage formats an SSE message with event name and single-line data
func formatSSEMessage(f Frame) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(f.Event)
	b.WriteString("\ndata: ")
	b.Write(f.Data)
	b.WriteString("\n\n")
	return []byte(b.String())
}

// ServeSSE streams a lobby's events to one player until the request ends
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Streams outlive the server's write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	client := NewClient(playerID, "sse")
	if !hub.Register(client) {
		http.Error(w, "Lobby closed", http.StatusGone)
		return
	}
	defer hub.Unregister(client)

	_, _ = w.Write(formatSSEMessage(Frame{Event: "connected", Data: []byte(`{"status":"connected"}`)}))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(formatSSEMessage(frame)); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
