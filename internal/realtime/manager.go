package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/partyarcade/internal/api/response"
	"github.com/mcoot/partyarcade/internal/model"
)

const (
	lobbyGroupPrefix  = "lobby:"
	playerGroupPrefix = "player:"
)

// HubManager manages hubs for all lobbies and routes group deliveries to them
type HubManager struct {
	hubs   map[model.LobbyCode]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.LobbyCode]*Hub),
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// GetOrCreateHub returns the hub for a lobby, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(lobbyCode model.LobbyCode) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[lobbyCode]; ok {
		return hub
	}

	hub := NewHub(lobbyCode, m.logger)
	m.hubs[lobbyCode] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a lobby, or nil if it doesn't exist
func (m *HubManager) GetHub(lobbyCode model.LobbyCode) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[lobbyCode]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(lobbyCode model.LobbyCode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[lobbyCode]; ok {
		hub.Close()
		delete(m.hubs, lobbyCode)
		m.logger.Info("hub removed", slog.String("lobby_code", string(lobbyCode)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for code, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, code)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}

// RunJanitor removes empty hubs every interval until ctx is done
func (m *HubManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.CleanupEmptyHubs()
		case <-ctx.Done():
			return
		}
	}
}

// Close stops every hub
func (m *HubManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, hub := range m.hubs {
		hub.Close()
		delete(m.hubs, code)
	}
}

// SendToGroup delivers an event to a "lobby:<code>" or "player:<id>" group.
// Events for lobbies without connected clients are dropped.
func (m *HubManager) SendToGroup(group string, event model.Event) {
	data, err := json.Marshal(response.EventFromModel(event))
	if err != nil {
		m.logger.Error("failed to encode event",
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	frame := Frame{Event: string(event.Type), Data: data}

	switch {
	case strings.HasPrefix(group, lobbyGroupPrefix):
		code := model.LobbyCode(strings.TrimPrefix(group, lobbyGroupPrefix))
		if hub := m.GetHub(code); hub != nil {
			hub.Broadcast(frame)
		}

	case strings.HasPrefix(group, playerGroupPrefix):
		playerID := model.PlayerID(strings.TrimPrefix(group, playerGroupPrefix))
		for _, hub := range m.hubsFor(event.LobbyCode) {
			hub.SendTo(playerID, frame)
		}

	default:
		m.logger.Warn("unknown delivery group", slog.String("group", group))
	}
}

// hubsFor returns the hub of code, or every hub when code is empty
func (m *HubManager) hubsFor(code model.LobbyCode) []*Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if code != "" {
		if hub, ok := m.hubs[code]; ok {
			return []*Hub{hub}
		}
		return nil
	}
	hubs := make([]*Hub, 0, len(m.hubs))
	for _, hub := range m.hubs {
		hubs = append(hubs, hub)
	}
	return hubs
}
