package cli

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/partyarcade/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameStateCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameTypesCmd())

	return cmd
}

// moveFlags collects the variant-specific move fields
type moveFlags struct {
	row, col, column int
	choice           string
	raw              string
}

// build returns the move payload for the flags that were set
func (f *moveFlags) build(cmd *cobra.Command) (json.RawMessage, error) {
	if f.raw != "" {
		if !json.Valid([]byte(f.raw)) {
			return nil, fmt.Errorf("--json is not valid JSON")
		}
		return json.RawMessage(f.raw), nil
	}

	move := map[string]any{}
	flags := cmd.Flags()
	switch {
	case flags.Changed("row") || flags.Changed("col"):
		if !flags.Changed("row") || !flags.Changed("col") {
			return nil, fmt.Errorf("--row and --col must be given together")
		}
		move["row"], move["col"] = f.row, f.col
	case flags.Changed("column"):
		move["column"] = f.column
	case f.choice != "":
		move["choice"] = f.choice
	default:
		return nil, fmt.Errorf("one of --row/--col, --column, --choice or --json is required")
	}
	return json.Marshal(move)
}

func newGameMoveCmd() *cobra.Command {
	var f moveFlags

	cmd := &cobra.Command{
		Use:   "move <code>",
		Short: "Make a move in your current game",
		Example: `  arcadectl game move ABC234 --row 1 --col 1
  arcadectl game move ABC234 --column 3
  arcadectl game move ABC234 --choice rock`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			move, err := f.build(cmd)
			if err != nil {
				return err
			}

			var result response.MoveResponse
			if err := client.Post(cmd.Context(), sessionPath(args[0], "moves"), map[string]json.RawMessage{"move": move}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&f.row, "row", 0, "Row (tictactoe)")
	cmd.Flags().IntVar(&f.col, "col", 0, "Column (tictactoe)")
	cmd.Flags().IntVar(&f.column, "column", 0, "Column to drop into (connectfour)")
	cmd.Flags().StringVar(&f.choice, "choice", "", "rock, paper or scissors (rps)")
	cmd.Flags().StringVar(&f.raw, "json", "", "Raw move payload")

	return cmd
}

func newGameStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <game-id>",
		Short: "Get the state of a running game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameState
			if err := client.Get(cmd.Context(), "/api/v1/games/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <game-id>",
		Short: "End a running game with no winner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/games/"+url.PathEscape(args[0])+"/end", nil, nil); err != nil {
				return err
			}
			output(cmd).PrintMessage("Game " + args[0] + " ended")
			return nil
		},
	}
}

func newGameTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the game types sessions can schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameTypesResponse
			if err := client.Get(cmd.Context(), "/api/v1/game-types", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}
}
