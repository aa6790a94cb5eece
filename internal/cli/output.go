package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mcoot/partyarcade/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printPlayer(v.Player)
		fmt.Fprintf(o.w, "Token: %s\n", v.SessionToken)
		fmt.Fprintf(o.w, "Expires: %s\n", v.ExpiresAt.Format("2006-01-02 15:04:05"))
	case response.MeResponse:
		o.printPlayer(v.Player)
		if v.Stats != nil {
			fmt.Fprintf(o.w, "Wins: %d / %d games\n", v.Stats.Wins, v.Stats.GamesPlayed)
		}
	case response.LeaderboardResponse:
		o.printLeaderboard(v)
	case response.Session:
		o.printSession(v)
	case response.CanJoinResponse:
		if v.CanJoin {
			fmt.Fprintln(o.w, "Can join: yes")
		} else {
			fmt.Fprintf(o.w, "Can join: no (%s)\n", v.Reason)
		}
	case response.PlayersResponse:
		o.printPlayers(v.Players)
	case response.RoundInfo:
		fmt.Fprintf(o.w, "Round: %d/%d\n", v.Current, v.Total)
	case response.GameState:
		o.printGameState(v)
	case response.MoveResponse:
		if !v.Applied {
			fmt.Fprintln(o.w, "Move ignored")
			return
		}
		fmt.Fprintln(o.w, "Move applied")
		if v.State != nil {
			o.printGameState(*v.State)
		}
	case response.GameTypesResponse:
		for _, t := range v.GameTypes {
			fmt.Fprintln(o.w, t)
		}
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s (%s in %s)\n", v.Status, v.Server, v.Latency)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult is the health response plus client-side timing
type HealthResult struct {
	Status  string `json:"status"`
	Server  string `json:"server"`
	Latency string `json:"latency"`
}

func (o *Output) printPlayer(p response.Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printLeaderboard(l response.LeaderboardResponse) {
	if len(l.Players) == 0 {
		fmt.Fprintln(o.w, "No results yet")
		return
	}
	for i, p := range l.Players {
		fmt.Fprintf(o.w, "%2d. %-20s %3d wins %3d games\n", i+1, p.DisplayName, p.Wins, p.GamesPlayed)
	}
}

func (o *Output) printSession(s response.Session) {
	fmt.Fprintf(o.w, "Session: %s\n", s.Code)
	fmt.Fprintf(o.w, "Phase: %s\n", s.Phase)
	fmt.Fprintf(o.w, "Round: %d/%d\n", s.Round.Current, s.Round.Total)
	fmt.Fprintf(o.w, "Schedule: %s\n", strings.Join(s.Schedule, ", "))
	fmt.Fprintf(o.w, "Players (%d/%d):\n", len(s.Players), s.Capacity)
	o.printPlayers(s.Players)
}

func (o *Output) printPlayers(players []response.SessionPlayer) {
	for _, p := range players {
		fmt.Fprintf(o.w, "  - %s (%s) wins: %d\n", p.DisplayName, p.ID, p.Wins)
	}
}

func (o *Output) printGameState(g response.GameState) {
	if g.ID != "" {
		fmt.Fprintf(o.w, "Game: %s (%s)\n", g.ID, g.Type)
	} else {
		fmt.Fprintf(o.w, "Game: %s\n", g.Type)
	}
	fmt.Fprintf(o.w, "Players: %s\n", strings.Join(g.Players, " vs "))
	if g.Turn != "" {
		fmt.Fprintf(o.w, "Turn: %s\n", g.Turn)
	}
	if len(g.Cells) > 0 {
		o.printGrid(g.Cells)
	}
	if len(g.Submitted) > 0 {
		fmt.Fprintf(o.w, "Submitted: %s\n", strings.Join(g.Submitted, ", "))
	}
	if len(g.Choices) > 0 {
		ids := make([]string, 0, len(g.Choices))
		for id := range g.Choices {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(o.w, "  %s chose %s\n", id, g.Choices[id])
		}
	}
	switch g.Result {
	case "win":
		fmt.Fprintf(o.w, "Winner: %s\n", g.Winner)
	case "draw":
		fmt.Fprintln(o.w, "Result: draw")
	}
}

func (o *Output) printGrid(cells [][]string) {
	cols := len(cells[0])

	fmt.Fprint(o.w, "    ")
	for col := 0; col < cols; col++ {
		fmt.Fprintf(o.w, " %d ", col)
	}
	fmt.Fprintln(o.w)

	border := "   +" + strings.Repeat("---", cols) + "+"
	fmt.Fprintln(o.w, border)
	for row, line := range cells {
		fmt.Fprintf(o.w, " %d |", row)
		for _, cell := range line {
			if cell == "" {
				fmt.Fprint(o.w, " . ")
			} else {
				fmt.Fprintf(o.w, " %s ", cell)
			}
		}
		fmt.Fprintln(o.w, "|")
	}
	fmt.Fprintln(o.w, border)
}
