package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/partyarcade/internal/dependencies/mocks"
	"github.com/mcoot/partyarcade/internal/games"
	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/services/arcade"
	"github.com/mcoot/partyarcade/internal/services/session"
	"github.com/mcoot/partyarcade/internal/services/stats"
	"github.com/mcoot/partyarcade/internal/services/table"
	"github.com/mcoot/partyarcade/internal/storage/memory"
	"github.com/mcoot/partyarcade/internal/testutil"
)

type WebSocketSuite struct {
	suite.Suite
	hubs       *HubManager
	controller *arcade.Controller
	server     *httptest.Server
	code       model.LobbyCode
}

func TestWebSocketSuite(t *testing.T) {
	suite.Run(t, new(WebSocketSuite))
}

func (s *WebSocketSuite) SetupTest() {
	logger := testutil.NopLogger()
	clk := mocks.NewMockClock(testutil.FixedTime)
	factory := games.NewFactory()
	tbl := table.New(factory, logger)
	registry := session.New(tbl, factory, clk, mocks.NewMockRandom(), logger)

	s.hubs = NewHubManager(logger)
	s.controller = arcade.NewController(registry, tbl, factory, stats.New(memory.New(), logger), s.hubs, clk, logger)
	dispatcher := NewDispatcher(s.controller, logger)

	code, err := s.controller.CreateSession(model.SessionSettings{
		Capacity: 2,
		Games:    []model.GameType{model.GameRPS},
	})
	s.Require().NoError(err)
	s.code = code
	for _, p := range testutil.Guests(2) {
		s.Require().NoError(s.controller.Join(code, p))
	}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := s.hubs.GetOrCreateHub(model.LobbyCode(r.URL.Query().Get("lobby")))
		ServeWS(w, r, hub, model.PlayerID(r.URL.Query().Get("player")), dispatcher, logger)
	}))
}

func (s *WebSocketSuite) TearDownTest() {
	s.server.Close()
	s.hubs.Close()
}

func (s *WebSocketSuite) dial(player string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "?lobby=" + string(s.code) + "&player=" + player
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *WebSocketSuite) read(conn *websocket.Conn) map[string]any {
	var msg map[string]any
	require.NoError(s.T(), conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(s.T(), conn.ReadJSON(&msg))
	return msg
}

func (s *WebSocketSuite) TestCommandsDriveAGame() {
	p1 := s.dial("p1")

	s.Require().NoError(p1.WriteJSON(map[string]any{"type": "start_round"}))

	msg := s.read(p1)
	s.Equal("round_started", msg["type"])
	msg = s.read(p1)
	s.Equal("game_started", msg["type"])
	gameID := msg["game_id"].(string)
	s.Equal(string(s.code)+".r0.g0", gameID)

	s.Require().NoError(p1.WriteJSON(map[string]any{"type": "move", "payload": map[string]string{"choice": "rock"}}))
	msg = s.read(p1)
	s.Equal("game_state", msg["type"])
	state := msg["payload"].(map[string]any)
	s.Equal([]any{"p1"}, state["submitted"])
}

func (s *WebSocketSuite) TestErrorsReachOnlyTheCaller() {
	p1 := s.dial("p1")

	s.Require().NoError(p1.WriteMessage(websocket.TextMessage, []byte(`{"type":"nope"}`)))

	msg := s.read(p1)
	s.Equal("error", msg["type"])
	s.Contains(msg["payload"].(map[string]any)["message"], "unknown type")
}
