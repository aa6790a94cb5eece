package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mcoot/partyarcade/internal/api/response"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"lobby"},
		Short:   "Session and round commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionCanJoinCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionLeaveCmd())
	cmd.AddCommand(newSessionPlayersCmd())
	cmd.AddCommand(newSessionRoundsCmd())
	cmd.AddCommand(newSessionStartRoundCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var (
		capacity int
		rounds   int
		random   bool
		games    []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session and join it",
		Example: `  arcadectl session create --capacity 4 --games tictactoe,rps
  arcadectl session create --capacity 2 --rounds 3 --random`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"capacity":    capacity,
				"rounds":      rounds,
				"random_game": random,
				"games":       games,
			}

			var result response.Session
			if err := client.Post(cmd.Context(), "/api/v1/sessions", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&capacity, "capacity", 2, "Maximum number of players")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "Number of rounds (default: one per listed game)")
	cmd.Flags().BoolVar(&random, "random", false, "Pick a random game for every round")
	cmd.Flags().StringSliceVar(&games, "games", nil, "Game type per round")

	return cmd
}

// sessionCmd builds a command that acts on one session and prints a response
func sessionCmd[T any](use, short, method string, parts ...string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <code>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result T
			if err := client.Do(cmd.Context(), method, sessionPath(args[0], parts...), nil, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return sessionCmd[response.Session]("get", "Get session details", http.MethodGet)
}

func newSessionCanJoinCmd() *cobra.Command {
	return sessionCmd[response.CanJoinResponse]("can-join", "Check whether you can join a session", http.MethodGet, "can-join")
}

func newSessionJoinCmd() *cobra.Command {
	return sessionCmd[response.Session]("join", "Join a session", http.MethodPost, "join")
}

func newSessionPlayersCmd() *cobra.Command {
	return sessionCmd[response.PlayersResponse]("players", "List players and their session wins", http.MethodGet, "players")
}

func newSessionRoundsCmd() *cobra.Command {
	return sessionCmd[response.RoundInfo]("rounds", "Show round progress", http.MethodGet, "rounds")
}

func newSessionStartRoundCmd() *cobra.Command {
	return sessionCmd[response.RoundInfo]("start-round", "Start the next round", http.MethodPost, "rounds")
}

func newSessionLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), sessionPath(args[0], "leave"), nil, nil); err != nil {
				return err
			}
			output(cmd).PrintMessage("Left session " + args[0])
			return nil
		},
	}
}
