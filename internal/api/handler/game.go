package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partyarcade/internal/api/middleware"
	"github.com/mcoot/partyarcade/internal/api/response"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/services/arcade"
)

// GameHandler handles game endpoints
type GameHandler struct {
	controller *arcade.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller *arcade.Controller) *GameHandler {
	return &GameHandler{controller: controller}
}

// memberGameKey parses the {id} route variable and checks the caller
// belongs to the game's session
func (h *GameHandler) memberGameKey(r *http.Request) (model.GameKey, error) {
	key, err := model.ParseGameKey(mux.Vars(r)["id"])
	if err != nil {
		return model.GameKey{}, err
	}
	player := middleware.MustGetPlayer(r.Context())
	if err := h.controller.RequireMember(key.Session, player.ID); err != nil {
		return model.GameKey{}, err
	}
	return key, nil
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, err := h.memberGameKey(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	view, err := h.controller.GetGameState(key)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.GameStateFromModel(key.String(), view))
}

// End handles POST /api/v1/games/{id}/end
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	key, err := h.memberGameKey(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.controller.EndGame(r.Context(), key); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Types handles GET /api/v1/game-types
func (h *GameHandler) Types(w http.ResponseWriter, r *http.Request) {
	response.OK(w, response.GameTypesFromModel(h.controller.ValidTypes()))
}
