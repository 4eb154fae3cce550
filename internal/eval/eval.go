// Package eval defines the Evaluator capability (spec §4.7) plus the one
// required concrete implementation, StaticEvaluator: a cheap heuristic scorer
// used by every search engine as a leaf-node fallback, and by PVS at every
// intermediate node.
package eval

import (
	"github.com/chewxy/math32"
	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/board"
	"github.com/nicozeitz/patchwork/internal/game"
)

// Evaluator scores a position from player 1's perspective: positive favors
// player 1, negative favors player 2, matching the zero-sum convention the
// searchers negate around the side to move.
type Evaluator interface {
	// EvaluateIntermediate scores a non-terminal position.
	EvaluateIntermediate(g *game.GameState) float32
	// EvaluateTerminal scores a position known to satisfy g.IsTerminated().
	EvaluateTerminal(g *game.GameState) float32
	String() string
}

// StableEvaluator is an Evaluator whose EvaluateIntermediate score changes
// smoothly as the game progresses -- the property PVS's move ordering and
// MCTS's leaf rollout both rely on to treat the score as a genuine heuristic
// rather than noise. StaticEvaluator satisfies this by construction (every
// term is a continuous function of the position); it exists as a marker
// interface so a future learned Network that fails this property can opt out
// of being plugged in wherever only a StableEvaluator is accepted.
type StableEvaluator interface {
	Evaluator
	IsStable() bool
}

// Network is the capability interface a learned value/policy collaborator
// satisfies, used by PolicyMCTSEngine (spec §4.10) in place of rollouts. A
// Network scores a batch of positions at once -- the whole point of batching
// search leaves before paying a model's forward-pass cost -- returning one
// value per position plus a dense policy vector indexed by
// action.Natural(a), one entry per action.AmountOfNormalNaturalActionIDs.
// Entries for actions illegal in that position are meaningless; callers mask
// them out against the position's own GetValidActions before renormalizing.
type Network interface {
	// EvaluateBatch returns, for each position in boards, its value from
	// player 1's perspective (same convention as Evaluator) and its full
	// dense policy vector.
	EvaluateBatch(boards []*game.GameState) (values []float32, policies [][action.AmountOfNormalNaturalActionIDs]float32)
	String() string
}

// WinScore is the evaluation of a won terminal position; a loss is -WinScore,
// a draw is 0. Chosen large enough to dominate any intermediate-node score
// (StaticEvaluator's terms are all bounded well under this).
const WinScore = float32(1_000_000)

// StaticEvaluator implements spec §4.7's fixed heuristic: per player, a blend
// of final score, remaining distance on the time track, quilt-board density
// and projected future button income, combined as player1 - player2.
type StaticEvaluator struct{}

var _ StableEvaluator = StaticEvaluator{}

func NewStaticEvaluator() StaticEvaluator { return StaticEvaluator{} }

func (StaticEvaluator) String() string { return "StaticEvaluator" }

func (StaticEvaluator) IsStable() bool { return true }

func (e StaticEvaluator) EvaluateIntermediate(g *game.GameState) float32 {
	return e.evaluateStateForPlayer(g, 1) - e.evaluateStateForPlayer(g, 2)
}

func (StaticEvaluator) EvaluateTerminal(g *game.GameState) float32 {
	switch g.Winner() {
	case 1:
		return WinScore
	case 2:
		return -WinScore
	default:
		return 0
	}
}

// evaluateStateForPlayer mirrors the original engine's per-player formula:
//
//	end_score*2*percentage_played
//	  + position_score
//	  + board_score*2*(1-percentage_played)
//	  + button_income_score
func (e StaticEvaluator) evaluateStateForPlayer(g *game.GameState, player int) float32 {
	p := g.Players[player-1]
	percentagePlayed := float32(p.ClampedPosition()) / float32(board.MaxPosition)

	endScore := float32(g.Score(player))
	positionScore := float32(board.MaxPosition - p.ClampedPosition())
	boardScore := e.boardScore(&p.Quilt)
	buttonIncomeScore := e.buttonIncomeScore(&g.Time, p.ClampedPosition(), float32(p.Quilt.ButtonIncome))

	return endScore*2*percentagePlayed +
		positionScore +
		boardScore*2*(1-percentagePlayed) +
		buttonIncomeScore
}

// boardScore rewards dense, contiguous coverage: every empty tile costs 9
// (itself plus its full Moore neighbourhood), and every occupied tile with an
// empty Moore neighbour loses one point per empty neighbour, treating the
// board edge as if it were occupied (no edge penalty).
func (e StaticEvaluator) boardScore(q *board.QuiltBoard) float32 {
	const tiles = 9 * 9
	score := tiles * 9

	occupied := func(row, col int) bool {
		if row < 0 || row >= 9 || col < 0 || col >= 9 {
			return true
		}
		return q.Tiles.IsSet(row*9 + col)
	}

	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if !occupied(row, col) {
				score -= 9
				continue
			}
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if !occupied(row+dr, col+dc) {
						score--
					}
				}
			}
		}
	}
	return float32(score)
}

// buttonIncomeScore weighs projected button income by how many of the nine
// income triggers still lie ahead: f(x) = 8*exp(ln(1/8)*x/8), x = triggers
// already passed, so untouched income (x=0) scores at its full weight of 8
// and income is discounted exponentially as the board empties of triggers.
func (e StaticEvaluator) buttonIncomeScore(tb *board.TimeBoard, position uint8, buttonIncome float32) float32 {
	lo := position + 1
	if lo > board.MaxPosition {
		lo = board.MaxPosition
	}
	triggersLeft := tb.AmountButtonIncomeTriggersInRange(lo, board.MaxPosition)
	triggersPassed := board.AmountButtonIncomeTriggers() - triggersLeft

	return 8 * math32.Exp(math32.Log(1.0/8.0)*float32(triggersPassed)/8.0) * buttonIncome
}
