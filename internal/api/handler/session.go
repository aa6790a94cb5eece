package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partyarcade/internal/api/middleware"
	"github.com/mcoot/partyarcade/internal/api/request"
	"github.com/mcoot/partyarcade/internal/api/response"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/realtime"
	"github.com/mcoot/partyarcade/internal/services/arcade"
)

// SessionHandler handles session, round and move endpoints
type SessionHandler struct {
	controller *arcade.Controller
	hubManager *realtime.HubManager
}

// NewSessionHandler creates a new session handler. hubManager may be nil.
func NewSessionHandler(controller *arcade.Controller, hubManager *realtime.HubManager) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		hubManager: hubManager,
	}
}

func lobbyCode(r *http.Request) model.LobbyCode {
	return model.LobbyCode(mux.Vars(r)["code"])
}

// writeSession responds with the current summary of a session
func (h *SessionHandler) writeSession(w http.ResponseWriter, code model.LobbyCode, status int) {
	summary, err := h.controller.GetSession(code)
	if err != nil {
		WriteError(w, err)
		return
	}
	round, err := h.controller.GetRoundInfo(code)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, status, response.SessionFromModel(summary, round))
}

// Create handles POST /api/v1/sessions. The creator joins the new session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	settings := model.SessionSettings{
		Capacity:   req.Capacity,
		Rounds:     req.Rounds,
		RandomGame: req.RandomGame,
	}
	for _, g := range req.Games {
		settings.Games = append(settings.Games, model.GameType(g))
	}

	code, err := h.controller.CreateSession(settings)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.controller.Join(code, *player); err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, code, http.StatusCreated)
}

// Get handles GET /api/v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.writeSession(w, lobbyCode(r), http.StatusOK)
}

// CanJoin handles GET /api/v1/sessions/{code}/can-join
func (h *SessionHandler) CanJoin(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	err := h.controller.CanJoin(lobbyCode(r), player.ID)
	switch {
	case err == nil:
		response.OK(w, response.CanJoinResponse{CanJoin: true})
	case errors.Is(err, model.ErrLobbyNotFound):
		WriteError(w, err)
	default:
		response.OK(w, response.CanJoinResponse{Reason: err.Error()})
	}
}

// Join handles POST /api/v1/sessions/{code}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := lobbyCode(r)

	if err := h.controller.Join(code, *player); err != nil {
		WriteError(w, err)
		return
	}

	h.writeSession(w, code, http.StatusOK)
}

// Leave handles POST /api/v1/sessions/{code}/leave. The last player out
// deletes the session and disconnects its streams.
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := lobbyCode(r)

	if !h.controller.Leave(r.Context(), code, player.ID) {
		if !h.controller.Exists(code) {
			WriteError(w, model.ErrLobbyNotFound)
			return
		}
		WriteError(w, model.ErrNotInLobby)
		return
	}

	if !h.controller.Exists(code) && h.hubManager != nil {
		h.hubManager.RemoveHub(code)
	}
	response.NoContent(w)
}

// Players handles GET /api/v1/sessions/{code}/players
func (h *SessionHandler) Players(w http.ResponseWriter, r *http.Request) {
	players, err := h.controller.GetPlayers(lobbyCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.PlayersResponse{Players: response.SessionPlayersFromModel(players)})
}

// Rounds handles GET /api/v1/sessions/{code}/rounds
func (h *SessionHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	round, err := h.controller.GetRoundInfo(lobbyCode(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, response.RoundInfoFromModel(round))
}

// StartRound handles POST /api/v1/sessions/{code}/rounds
func (h *SessionHandler) StartRound(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := lobbyCode(r)

	if err := h.controller.RequireMember(code, player.ID); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.controller.StartNextRound(code); err != nil {
		WriteError(w, err)
		return
	}

	round, err := h.controller.GetRoundInfo(code)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.Created(w, response.RoundInfoFromModel(round))
}

// Move handles POST /api/v1/sessions/{code}/moves. A move the game ignores
// is reported with applied=false rather than an error.
func (h *SessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	code := lobbyCode(r)

	var req request.MoveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Move) == 0 {
		WriteError(w, NewInvalidRequestError("move is required"))
		return
	}

	if err := h.controller.RequireMember(code, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	// Looked up first since a finishing move releases the mapping
	key, _ := h.controller.GetCurrentGame(code, player.ID)
	applied, view, err := h.controller.ApplyMove(r.Context(), code, player.ID, model.Move(req.Move))
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.MoveResponse{Applied: applied}
	if view != nil {
		state := response.GameStateFromModel(key.String(), view)
		resp.State = &state
	}
	response.OK(w, resp)
}
