package main

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/nicozeitz/patchwork/internal/driver"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/players"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// results tallies wins the way the teacher's cmd/compare Results struct
// does, split by which configuration played first vs. second so a
// first-move advantage doesn't get attributed to engine strength.
type results struct {
	mu                   sync.Mutex
	winsAs1st, winsAs2nd [2]int
	draws                [2]int
	played               int
}

func newCompareCommand() *cobra.Command {
	var parallelism int
	var maxMoves int

	cmd := &cobra.Command{
		Use:   "compare p1 p2 iterations",
		Short: "Play many matches between two engine configurations and report win rates",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			numMatches, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("compare: invalid iterations %q: %w", args[2], err)
			}
			cfg1, cfg2 := args[0], args[1]

			// Each match gets its own pair of Player instances: pvs.Engine (and
			// the other engines) keep mutable per-search state such as a
			// transposition table with no internal locking, so sharing one
			// instance across concurrently-running matches would race.
			r := &results{}
			var wg errgroup.Group
			if parallelism > 0 {
				wg.SetLimit(parallelism)
			}

			for matchIdx := 0; matchIdx < numMatches; matchIdx++ {
				matchIdx := matchIdx
				wg.Go(func() error {
					p1, err := players.New(cfg1)
					if err != nil {
						return err
					}
					defer p1.Finalize()
					p2, err := players.New(cfg2)
					if err != nil {
						return err
					}
					defer p2.Finalize()

					matchPlayers := [2]players.Player{p1, p2}
					isSwapped := matchIdx%2 == 1
					player1st := 0
					if isSwapped {
						matchPlayers[0], matchPlayers[1] = matchPlayers[1], matchPlayers[0]
						player1st = 1
					}

					seed := uint64(matchIdx + 1)
					g := game.InitialState(patch.Default, &seed)
					outcome, err := driver.Run(globalCtx, g, matchPlayers, driver.Options{MaxMoves: maxMoves})
					if err != nil {
						return err
					}

					r.mu.Lock()
					defer r.mu.Unlock()
					winner := outcome.Winner - 1 // -1 for a draw, 0/1 otherwise
					if winner < 0 {
						r.draws[player1st]++
					} else {
						if isSwapped {
							winner = 1 - winner
						}
						if winner == player1st {
							r.winsAs1st[winner]++
						} else {
							r.winsAs2nd[winner]++
						}
					}
					r.played++
					if klog.V(1).Enabled() {
						klog.Infof("compare: match %d/%d done (%s)", r.played, numMatches, outcome.MatchID)
					}
					return nil
				})
			}
			if err := wg.Wait(); err != nil {
				return err
			}

			fmt.Printf("AI-1: %d wins (1st: %d, 2nd: %d)\n", r.winsAs1st[0]+r.winsAs2nd[0], r.winsAs1st[0], r.winsAs2nd[0])
			fmt.Printf("AI-2: %d wins (1st: %d, 2nd: %d)\n", r.winsAs1st[1]+r.winsAs2nd[1], r.winsAs1st[1], r.winsAs2nd[1])
			fmt.Printf("draws: %d (%d with AI-1 first, %d with AI-2 first)\n", r.draws[0]+r.draws[1], r.draws[0], r.draws[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "max matches to run concurrently (0 = unbounded)")
	cmd.Flags().IntVar(&maxMoves, "max_moves", 400, "abort each match and score it as-is after this many plies")
	return cmd
}
