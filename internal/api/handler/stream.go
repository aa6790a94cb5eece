package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/partyarcade/internal/api/middleware"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/realtime"
	"github.com/mcoot/partyarcade/internal/services/arcade"
)

// StreamHandler attaches session members to their lobby's event stream
type StreamHandler struct {
	controller *arcade.Controller
	hubManager *realtime.HubManager
	dispatcher *realtime.Dispatcher
	logger     *slog.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(controller *arcade.Controller, hubManager *realtime.HubManager, dispatcher *realtime.Dispatcher, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		controller: controller,
		hubManager: hubManager,
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "stream")),
	}
}

// attach resolves the lobby and player of a stream request
func (h *StreamHandler) attach(w http.ResponseWriter, r *http.Request) (*realtime.Hub, model.PlayerID, bool) {
	code := model.LobbyCode(r.URL.Query().Get("lobby"))
	if code == "" {
		WriteError(w, NewInvalidRequestError("lobby is required"))
		return nil, "", false
	}

	player := middleware.MustGetPlayer(r.Context())
	if err := h.controller.RequireMember(code, player.ID); err != nil {
		WriteError(w, err)
		return nil, "", false
	}

	return h.hubManager.GetOrCreateHub(code), player.ID, true
}

// Events handles GET /api/v1/events?lobby=CODE
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	hub, playerID, ok := h.attach(w, r)
	if !ok {
		return
	}
	realtime.ServeSSE(w, r, hub, playerID)
}

// WebSocket handles GET /api/v1/ws?lobby=CODE
func (h *StreamHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	hub, playerID, ok := h.attach(w, r)
	if !ok {
		return
	}
	realtime.ServeWS(w, r, hub, playerID, h.dispatcher, h.logger)
}
