package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/partyarcade/internal/api/handler"
	"github.com/mcoot/partyarcade/internal/api/middleware"
	httpmw "github.com/mcoot/partyarcade/internal/middleware"
	"github.com/mcoot/partyarcade/internal/api/response"
	"github.com/mcoot/partyarcade/internal/realtime"
	"github.com/mcoot/partyarcade/internal/services/arcade"
	"github.com/mcoot/partyarcade/internal/services/auth"
	"github.com/mcoot/partyarcade/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	StatsService *stats.Service
	Controller   *arcade.Controller
	HubManager   *realtime.HubManager
	Dispatcher   *realtime.Dispatcher
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.StatsService)
	sessionHandler := handler.NewSessionHandler(cfg.Controller, cfg.HubManager)
	gameHandler := handler.NewGameHandler(cfg.Controller)
	streamHandler := handler.NewStreamHandler(cfg.Controller, cfg.HubManager, cfg.Dispatcher, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(httpmw.Logging(cfg.Logger))

	// Public routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", playerHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/game-types", gameHandler.Types).Methods(http.MethodGet)

	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{code}/can-join", sessionHandler.CanJoin).Methods(http.MethodGet)
	sessions.HandleFunc("/{code}/join", sessionHandler.Join).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/leave", sessionHandler.Leave).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/players", sessionHandler.Players).Methods(http.MethodGet)
	sessions.HandleFunc("/{code}/rounds", sessionHandler.Rounds).Methods(http.MethodGet)
	sessions.HandleFunc("/{code}/rounds", sessionHandler.StartRound).Methods(http.MethodPost)
	sessions.HandleFunc("/{code}/moves", sessionHandler.Move).Methods(http.MethodPost)

	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/end", gameHandler.End).Methods(http.MethodPost)

	// Streams also accept ?token= for browser clients
	streams := api.NewRoute().Subrouter()
	streams.Use(middleware.StreamAuth(cfg.AuthService))
	streams.HandleFunc("/events", streamHandler.Events).Methods(http.MethodGet)
	streams.HandleFunc("/ws", streamHandler.WebSocket).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}
