// Package game implements GameState: the authoritative, reversible
// Patchwork game tree node that every search engine drives via
// DoAction/UndoAction and GetValidActions, per spec §3/§4.4-§4.6.
package game

import (
	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/board"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/pkg/errors"
)

// ErrorKind tags the error taxonomy from spec §7 so callers can
// errors.Is/switch on the kind instead of matching strings.
type ErrorKind int

const (
	InvalidAction ErrorKind = iota
	GameAlreadyInitial
	InvalidRange
)

// Error is the concrete error type used throughout this package.
type Error struct {
	Kind ErrorKind
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, msg: errors.Errorf(format, args...).Error()}
}

// StartingButtonBalance is every player's button count at game start.
const StartingButtonBalance int32 = 5

// PlayerState is one player's mutable state, per spec §3.
type PlayerState struct {
	// Position is the raw, possibly-beyond-MaxPosition track position; see
	// board.Clamp for the "clamped to 53 when queried" rule.
	Position     uint8
	ButtonBalance int32
	Quilt        board.QuiltBoard
}

// ClampedPosition returns Position capped at board.MaxPosition.
func (p PlayerState) ClampedPosition() uint8 { return board.Clamp(uint16(p.Position)) }

// GameState is the full, reversible Patchwork position.
type GameState struct {
	Library *patch.Library

	Players  [2]PlayerState
	Time     board.TimeBoard
	Market   []uint8
	Flags    board.StatusFlags
	TurnType board.TurnType

	// Hash is this position's Zobrist hash, maintained by DoAction/UndoAction;
	// see internal/zobrist and computeHashFromScratch.
	Hash uint64

	history []undoRecord
}

// mutableSnapshot is a cheap value-copy of every field DoAction can touch
// besides Flags/TurnType (which are themselves single-word values and
// snapshotted directly). GameState's total mutable footprint is small
// enough that a full snapshot-per-move is simpler and just as correct as a
// hand-rolled per-branch diff, at a modest, documented cost in raw
// throughput relative to the original's diff-based undo (see DESIGN.md).
type mutableSnapshot struct {
	players [2]PlayerState
	time    board.TimeBoard
	market  []uint8
}

type undoRecord struct {
	action       action.Action
	prevFlags    board.StatusFlags
	prevTurnType board.TurnType
	prevHash     uint64
	snapshot     mutableSnapshot
}

func (g *GameState) snapshotMutable() mutableSnapshot {
	return mutableSnapshot{
		players: g.Players,
		time:    g.Time,
		market:  append([]uint8(nil), g.Market...),
	}
}

func (g *GameState) restoreMutable(s mutableSnapshot) {
	g.Players = s.players
	g.Time = s.time
	g.Market = s.market
}

// InitialState constructs the start-of-game position (spec §4.4): two
// default players, an empty time board with its fixed triggers/specials,
// a market shuffled with the given seed (nil for an unseeded shuffle),
// player 1 to move, turn type Normal.
func InitialState(lib *patch.Library, seed *uint64) *GameState {
	g := &GameState{
		Library: lib,
		Time:    board.NewTimeBoard(),
		Market:  lib.GenerateMarket(seed),
		Flags:   board.StatusFlags(0).WithCurrentPlayer(1),
		TurnType: board.Normal,
	}
	g.Players[0].ButtonBalance = StartingButtonBalance
	g.Players[1].ButtonBalance = StartingButtonBalance
	g.Hash = computeHashFromScratch(g)
	return g
}

// Clone returns an independent copy of g: the tree searchers (internal/
// searchers/mcts, internal/searchers/policymcts) keep one long-lived
// GameState per arena node rather than a single do/undo cursor, so each
// expanded child needs its own mutable state instead of sharing g's.
// Library is a process-wide read-only singleton and is shared by reference;
// history is dropped since a cloned node is never unwound past its own
// creation point.
func (g *GameState) Clone() *GameState {
	return &GameState{
		Library:  g.Library,
		Players:  g.Players,
		Time:     g.Time,
		Market:   append([]uint8(nil), g.Market...),
		Flags:    g.Flags,
		TurnType: g.TurnType,
		Hash:     g.Hash,
	}
}

// FromNotationParts reconstructs a GameState from the fields of the spec §6
// game notation, for internal/notation. TimeBoard's per-marker alive bits
// are not part of that grammar (it exposes a single claimed-overall flag,
// not five independent bits), so a marker is reconstructed as consumed iff
// both players have already passed its track position — the only
// deterministic approximation the grammar supports; see DESIGN.md.
func FromNotationParts(lib *patch.Library, p1, p2 PlayerState, flags board.StatusFlags, market []uint8) *GameState {
	g := &GameState{
		Library:  lib,
		Time:     board.NewTimeBoard(),
		Market:   market,
		Flags:    flags,
		TurnType: board.Normal,
	}
	g.Players[0] = p1
	g.Players[1] = p2
	g.Time.MovePlayerPosition(0, 0, p1.ClampedPosition())
	g.Time.MovePlayerPosition(1, 0, p2.ClampedPosition())
	for trackIdx := 0; trackIdx < board.AmountOfSpecialPatches(); trackIdx++ {
		pos := board.TrackIndexToPosition(trackIdx)
		if p1.ClampedPosition() > pos && p2.ClampedPosition() > pos {
			g.Time.UnsetSpecialPatch(trackIdx)
		}
	}
	g.Hash = computeHashFromScratch(g)
	return g
}

func (g *GameState) currentIdx() int { return g.Flags.CurrentPlayer() - 1 }

func (g *GameState) switchPlayer() {
	g.Flags = g.Flags.SwitchPlayer()
}

// IsTerminated reports whether both players have reached the end of the
// time track.
func (g *GameState) IsTerminated() bool {
	return g.Players[0].ClampedPosition() >= board.MaxPosition &&
		g.Players[1].ClampedPosition() >= board.MaxPosition
}

// Score returns player 1 or 2's final score: remaining buttons, minus two
// per empty quilt tile, plus a flat +7 if that player claimed the
// special-tile (7x7) bonus.
func (g *GameState) Score(player int) int32 {
	p := g.Players[player-1]
	score := p.ButtonBalance + p.Quilt.Score()
	if g.Flags.HasSpecialTile(player) {
		score += 7
	}
	return score
}

// Winner returns 1 or 2 for a decided result, or 0 for a tie. Only
// meaningful once IsTerminated is true.
func (g *GameState) Winner() int {
	s1, s2 := g.Score(1), g.Score(2)
	switch {
	case s1 > s2:
		return 1
	case s2 > s1:
		return 2
	default:
		return 0
	}
}

// MarketPatchID returns the patch id sitting at market position idx (0,1,2),
// used by action.FromSurrogate/FromNatural to resolve a patch_index back to
// a concrete patch.
func (g *GameState) MarketPatchID(idx uint8) uint8 {
	return g.Market[idx]
}

func rotateLeft(s []uint8, n int) {
	n %= len(s)
	rotated := append(append([]uint8(nil), s[n:]...), s[:n]...)
	copy(s, rotated)
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
