package main

import (
	"fmt"

	cliui "github.com/nicozeitz/patchwork/internal/ui/cli"
	"github.com/nicozeitz/patchwork/internal/driver"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/players"
	"github.com/spf13/cobra"
)

func newPlayCommand() *cobra.Command {
	var seed int64
	var maxMoves int

	cmd := &cobra.Command{
		Use:   "play <player1-config> <player2-config>",
		Short: "Play one match between two engine configurations, printing the final board and outcome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p1, err := players.New(args[0])
			if err != nil {
				return err
			}
			defer p1.Finalize()
			p2, err := players.New(args[1])
			if err != nil {
				return err
			}
			defer p2.Finalize()

			var seedPtr *uint64
			if seed != 0 {
				u := uint64(seed)
				seedPtr = &u
			}
			g := game.InitialState(patch.Default, seedPtr)

			outcome, err := driver.Run(globalCtx, g, [2]players.Player{p1, p2}, driver.Options{MaxMoves: maxMoves})
			if err != nil {
				return err
			}
			cliui.PrintBoard(g)
			fmt.Printf("match %s finished after %d moves: winner=%d scores=%v\n",
				outcome.MatchID, outcome.Moves, outcome.Winner, outcome.Scores)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed for the initial market shuffle (0 = random)")
	cmd.Flags().IntVar(&maxMoves, "max_moves", 400, "abort the match and score it as-is after this many plies")
	return cmd
}
