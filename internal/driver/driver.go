// Package driver runs two Players against a GameState to termination and
// reports the outcome, the way cmd/compare's runMatch drives the teacher's
// SearcherScorer pair (spec §2's GameDriver row).
package driver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/players"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Outcome reports how one match ended.
type Outcome struct {
	MatchID string
	// Winner is 1 or 2, or 0 for a draw (game.Winner's convention).
	Winner int
	Moves  int
	Scores [2]int32
}

// Options bounds a single match.
type Options struct {
	// MaxMoves aborts the match once this many plies have been played,
	// treating the current scores as final. Zero means unbounded.
	MaxMoves int
}

// Run drives players[0] (player 1) and players[1] (player 2) against g until
// the game terminates or Options.MaxMoves is hit, mutating g in place move
// by move the way the teacher's runMatch advances board in its loop.
func Run(ctx context.Context, g *game.GameState, matchPlayers [2]players.Player, opts Options) (Outcome, error) {
	id := uuid.NewString()
	outcome := Outcome{MatchID: id}

	for !g.IsTerminated() {
		if err := ctx.Err(); err != nil {
			return outcome, errors.Wrap(err, "driver: match cancelled")
		}
		if opts.MaxMoves > 0 && outcome.Moves >= opts.MaxMoves {
			break
		}

		playerIdx := g.Flags.CurrentPlayer() - 1
		mover := matchPlayers[playerIdx]

		chosen, _, _, err := mover.Play(g)
		if err != nil {
			return outcome, errors.Wrapf(err, "driver: match %s, move %d, player %d", id, outcome.Moves, playerIdx+1)
		}
		if klog.V(2).Enabled() {
			klog.Infof("match %s move %d: player %d plays %s", id, outcome.Moves, playerIdx+1, chosen)
		}
		if err := g.DoAction(chosen, true); err != nil {
			return outcome, errors.Wrapf(err, "driver: match %s, move %d, player %d applying %s", id, outcome.Moves, playerIdx+1, chosen)
		}
		outcome.Moves++
	}

	outcome.Winner = g.Winner()
	outcome.Scores[0] = g.Score(1)
	outcome.Scores[1] = g.Score(2)
	return outcome, nil
}

// RunTimed is a convenience wrapper that bounds the whole match by a wall
// clock deadline in addition to Options.MaxMoves, for callers that want to
// guarantee forward progress across many matches.
func RunTimed(g *game.GameState, matchPlayers [2]players.Player, opts Options, timeout time.Duration) (Outcome, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return Run(ctx, g, matchPlayers, opts)
}
