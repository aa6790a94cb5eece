package session

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/partyarcade/internal/dependencies/clock"
	"github.com/mcoot/partyarcade/internal/dependencies/random"
	"github.com/mcoot/partyarcade/internal/games"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/services/table"
)

const (
	// CodeLength is the length of generated lobby codes
	CodeLength = 6
	// CodeAlphabet is the characters used in lobby codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type gameSet map[model.GameKey]struct{}

// session is the mutable record behind one lobby code. Every field is
// guarded by mu; deleted is set once the record leaves the registry so
// callers that raced the deletion observe ErrLobbyNotFound.
type session struct {
	mu sync.Mutex

	code       model.LobbyCode
	capacity   int
	schedule   []model.GameType
	roundIndex int // next round to start
	inProgress bool
	finished   bool
	members    []model.Player // join order; Wins counts wins within this session
	gameIDs    map[model.PlayerID]model.GameKey
	roundGames map[int]gameSet // games started per round
	ended      map[int]gameSet // games marked ended per round
	createdAt  time.Time
	deleted    bool
}

func (s *session) memberIndex(id model.PlayerID) int {
	return slices.IndexFunc(s.members, func(p model.Player) bool { return p.ID == id })
}

func (s *session) phase() model.SessionPhase {
	switch {
	case s.finished:
		return model.PhaseFinished
	case s.inProgress:
		return model.PhasePlaying
	default:
		return model.PhaseWaiting
	}
}

// RoundStart describes the games created by StartNextRound
type RoundStart struct {
	Round    model.RoundInfo
	GameType model.GameType
	Games    map[model.GameKey][]model.PlayerID
	Byes     []model.PlayerID
}

// Registry owns every live session, keyed by lobby code
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.LobbyCode]*session

	table   *table.Table
	factory *games.Factory
	random  random.Random
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates an empty registry that starts round games on t
func New(
	t *table.Table,
	factory *games.Factory,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Registry {
	return &Registry{
		sessions: make(map[model.LobbyCode]*session),
		table:    t,
		factory:  factory,
		random:   random,
		clock:    clock,
		logger:   logger.With(slog.String("component", "session-registry")),
	}
}

// acquire returns the locked session for code. The caller must unlock it.
func (r *Registry) acquire(code model.LobbyCode) (*session, error) {
	r.mu.RLock()
	s, ok := r.sessions[code]
	r.mu.RUnlock()
	if !ok {
		return nil, model.ErrLobbyNotFound
	}

	s.mu.Lock()
	if s.deleted {
		s.mu.Unlock()
		return nil, model.ErrLobbyNotFound
	}
	return s, nil
}

// CreateSession registers a new session under a fresh code. The schedule is
// drawn at random from the factory's valid types when requested or when no
// explicit list is given; otherwise the explicit list is used verbatim.
// Settings are expected to have been validated by the caller.
func (r *Registry) CreateSession(settings model.SessionSettings) model.LobbyCode {
	var schedule []model.GameType
	if settings.RandomGame || len(settings.Games) == 0 {
		valid := r.factory.ValidTypes()
		schedule = make([]model.GameType, settings.Rounds)
		for i := range schedule {
			schedule[i] = valid[r.random.Intn(len(valid))]
		}
	} else {
		schedule = slices.Clone(settings.Games)
	}

	s := &session{
		capacity:   settings.Capacity,
		schedule:   schedule,
		gameIDs:    make(map[model.PlayerID]model.GameKey),
		roundGames: make(map[int]gameSet),
		ended:      make(map[int]gameSet),
		createdAt:  r.clock.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		code := model.LobbyCode(r.random.String(CodeLength, CodeAlphabet))
		if _, taken := r.sessions[code]; !taken && code != "" {
			s.code = code
			break
		}
	}
	r.sessions[s.code] = s

	r.logger.Info("session created",
		slog.String("lobby_code", string(s.code)),
		slog.Int("capacity", s.capacity),
		slog.Int("rounds", len(s.schedule)))
	return s.code
}

// Exists reports whether a session is registered under code
func (r *Registry) Exists(code model.LobbyCode) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[code]
	return ok
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// checkJoin validates a join against a locked session
func checkJoin(s *session, id model.PlayerID) error {
	if s.inProgress || s.finished {
		return model.ErrAlreadyStarted
	}
	if len(s.members) >= s.capacity {
		return model.ErrLobbyFull
	}
	if s.memberIndex(id) >= 0 {
		return model.ErrAlreadyInLobby
	}
	return nil
}

// CanJoin reports whether Join would currently succeed, without mutating anything
func (r *Registry) CanJoin(code model.LobbyCode, id model.PlayerID) error {
	s, err := r.acquire(code)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()
	return checkJoin(s, id)
}

// Join appends a player to the session
func (r *Registry) Join(code model.LobbyCode, player model.Player) error {
	s, err := r.acquire(code)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	if err := checkJoin(s, player.ID); err != nil {
		return err
	}

	player.Wins = 0
	s.members = append(s.members, player)
	return nil
}

// Leave removes a player. When the last player leaves the session is
// deleted and its code becomes reusable. Returns false if the code is
// unknown or the player was not a member.
func (r *Registry) Leave(code model.LobbyCode, id model.PlayerID) bool {
	s, err := r.acquire(code)
	if err != nil {
		return false
	}

	idx := s.memberIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.members = slices.Delete(s.members, idx, idx+1)
	delete(s.gameIDs, id)

	empty := len(s.members) == 0
	if empty {
		s.deleted = true
	}
	s.mu.Unlock()

	if empty {
		r.mu.Lock()
		if r.sessions[code] == s {
			delete(r.sessions, code)
		}
		r.mu.Unlock()
		r.logger.Info("session deleted", slog.String("lobby_code", string(code)))
	}
	return true
}

// roundInfo computes the display round for a locked session
func roundInfo(s *session) model.RoundInfo {
	total := len(s.schedule)
	current := max(s.roundIndex, 1)
	return model.RoundInfo{Current: min(current, total), Total: total}
}

// RoundInfo returns the 1-based round currently shown to players and the total
func (r *Registry) RoundInfo(code model.LobbyCode) (model.RoundInfo, error) {
	s, err := r.acquire(code)
	if err != nil {
		return model.RoundInfo{}, err
	}
	defer s.mu.Unlock()
	return roundInfo(s), nil
}

// StartNextRound starts one game per pair of players, in join order, for the
// next scheduled round. An odd player out sits the round out. If any game
// fails to start, the games already started for the round are removed and
// ErrRoundStartFailed is returned with the round left unstarted.
func (r *Registry) StartNextRound(code model.LobbyCode) (*RoundStart, error) {
	s, err := r.acquire(code)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if s.finished {
		return nil, model.ErrRoundsExhausted
	}
	if s.roundIndex >= len(s.schedule) {
		s.finished = true
		return nil, model.ErrRoundsExhausted
	}
	if s.roundIndex > 0 && !allEnded(s, s.roundIndex-1) {
		return nil, model.ErrRoundInProgress
	}
	if len(s.members) < 2 {
		return nil, model.ErrInsufficientPlayers
	}

	round := s.roundIndex
	gameType := s.schedule[round]
	start := &RoundStart{
		GameType: gameType,
		Games:    make(map[model.GameKey][]model.PlayerID),
	}

	started := make(gameSet)
	for i := 0; i+1 < len(s.members); i += 2 {
		key := model.GameKey{Session: s.code, Round: round, Group: i / 2}
		players := []model.PlayerID{s.members[i].ID, s.members[i+1].ID}
		if !r.table.Start(key, gameType, players) {
			for k := range started {
				r.table.Remove(k)
			}
			r.logger.Error("round start failed",
				slog.String("lobby_code", string(s.code)),
				slog.Int("round", round),
				slog.String("game_id", key.String()))
			return nil, fmt.Errorf("%w: game %s", model.ErrRoundStartFailed, key)
		}
		started[key] = struct{}{}
		start.Games[key] = players
	}
	if len(s.members)%2 == 1 {
		start.Byes = []model.PlayerID{s.members[len(s.members)-1].ID}
	}

	s.inProgress = true
	s.roundIndex++
	resetTracking(s, round)
	s.roundGames[round] = started
	for key, players := range start.Games {
		for _, p := range players {
			s.gameIDs[p] = key
		}
	}
	start.Round = roundInfo(s)

	r.logger.Info("round started",
		slog.String("lobby_code", string(s.code)),
		slog.Int("round", start.Round.Current),
		slog.String("game_type", string(gameType)),
		slog.Int("games", len(started)))
	return start, nil
}

// SetGameID maps a player to the game they are playing
func (r *Registry) SetGameID(code model.LobbyCode, id model.PlayerID, key model.GameKey) error {
	s, err := r.acquire(code)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()
	if s.memberIndex(id) < 0 {
		return model.ErrNotInLobby
	}
	s.gameIDs[id] = key
	return nil
}

// GetGameID returns the game a player is currently active in
func (r *Registry) GetGameID(code model.LobbyCode, id model.PlayerID) (model.GameKey, error) {
	s, err := r.acquire(code)
	if err != nil {
		return model.GameKey{}, err
	}
	defer s.mu.Unlock()
	key, ok := s.gameIDs[id]
	if !ok {
		return model.GameKey{}, model.ErrNotInGame
	}
	return key, nil
}

// ClearGameID removes a player's game mapping
func (r *Registry) ClearGameID(code model.LobbyCode, id model.PlayerID) error {
	s, err := r.acquire(code)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()
	delete(s.gameIDs, id)
	return nil
}

// RecordWin credits a game win to a member's session counter
func (r *Registry) RecordWin(code model.LobbyCode, id model.PlayerID) error {
	s, err := r.acquire(code)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()
	idx := s.memberIndex(id)
	if idx < 0 {
		return model.ErrNotInLobby
	}
	s.members[idx].Wins++
	return nil
}

// Players returns the members in join order
func (r *Registry) Players(code model.LobbyCode) ([]model.Player, error) {
	s, err := r.acquire(code)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return slices.Clone(s.members), nil
}

// Standings returns the members ordered by session wins
func (r *Registry) Standings(code model.LobbyCode) ([]model.Player, error) {
	players, err := r.Players(code)
	if err != nil {
		return nil, err
	}
	model.SortByWins(players)
	return players, nil
}

// Summary returns a snapshot of the session
func (r *Registry) Summary(code model.LobbyCode) (*model.SessionSummary, error) {
	s, err := r.acquire(code)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	players := make([]model.PlayerSummary, len(s.members))
	for i, m := range s.members {
		players[i] = model.PlayerSummary{ID: m.ID, DisplayName: m.DisplayName, Wins: m.Wins}
	}
	return &model.SessionSummary{
		Code:       s.code,
		Phase:      s.phase(),
		Capacity:   s.capacity,
		Schedule:   slices.Clone(s.schedule),
		RoundIndex: s.roundIndex,
		Players:    players,
		CreatedAt:  s.createdAt,
	}, nil
}
