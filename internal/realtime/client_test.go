package realtime

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/partyarcade/internal/model"
	"github.com/mcoot/partyarcade/internal/testutil"
)

func TestServeSSE(t *testing.T) {
	m := NewHubManager(testutil.NopLogger())
	defer m.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, m.GetOrCreateHub("ABC234"), "alice")
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && event != "":
				return event, data
			}
		}
	}

	event, _ := readEvent()
	require.Equal(t, "connected", event)

	m.SendToGroup(model.LobbyGroup("ABC234"), model.Event{
		Type:      model.EventPlayerLeft,
		LobbyCode: "ABC234",
		Payload:   model.PlayerLeftPayload{PlayerID: "bob", DisplayName: "Bob"},
	})

	event, data := readEvent()
	assert.Equal(t, "player_left", event)
	assert.Contains(t, data, `"display_name":"Bob"`)
}
