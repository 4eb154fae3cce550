// Package notation implements the textual game/action notation from spec
// §6: a single-line, human-readable encoding of a GameState and of a single
// Action, used by cmd/patchwork's upi command and by the
// round-trip property in spec §8.2.
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/board"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/generics"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/pkg/errors"
)

// ErrorKind tags notation-specific parse failures, matching spec §7's
// InvalidNotation kind.
type ErrorKind int

const (
	InvalidNotation ErrorKind = iota
)

// Error is returned by every parse failure in this package.
type Error struct {
	Kind  ErrorKind
	Input string
	msg   string
}

func (e *Error) Error() string { return fmt.Sprintf("notation: %s (input %q)", e.msg, e.Input) }

func invalid(input, format string, args ...any) error {
	return &Error{Kind: InvalidNotation, Input: input, msg: fmt.Sprintf(format, args...)}
}

// serializeMask prints an 81-bit quilt mask as 21 hex digits, MSB first: 5
// digits for the 17-bit high half followed by 16 for the 64-bit low half.
func serializeMask(m patch.Mask81) string {
	return fmt.Sprintf("%05x%016x", m.Hi, m.Lo)
}

func parseMask(s string) (patch.Mask81, error) {
	if len(s) != 21 {
		return patch.Mask81{}, errors.Errorf("quilt mask must be 21 hex digits, got %d", len(s))
	}
	hi, err := strconv.ParseUint(s[:5], 16, 32)
	if err != nil {
		return patch.Mask81{}, errors.Wrap(err, "parsing high half of quilt mask")
	}
	lo, err := strconv.ParseUint(s[5:], 16, 64)
	if err != nil {
		return patch.Mask81{}, errors.Wrap(err, "parsing low half of quilt mask")
	}
	if hi&^0x1FFFF != 0 {
		return patch.Mask81{}, errors.Errorf("quilt mask high half has bits set above bit 80")
	}
	return patch.Mask81{Lo: lo, Hi: hi}, nil
}

func serializePlayer(p game.PlayerState) string {
	return fmt.Sprintf("%sB%dI%dP%d", serializeMask(p.Quilt.Tiles), p.ButtonBalance, p.Quilt.ButtonIncome, p.Position)
}

func parsePlayer(s string) (game.PlayerState, error) {
	bIdx := strings.IndexByte(s, 'B')
	iIdx := strings.IndexByte(s, 'I')
	pIdx := strings.IndexByte(s, 'P')
	if bIdx < 0 || iIdx < 0 || pIdx < 0 || !(bIdx < iIdx && iIdx < pIdx) {
		return game.PlayerState{}, invalid(s, "malformed player block, expected <mask>B<balance>I<income>P<position>")
	}
	mask, err := parseMask(s[:bIdx])
	if err != nil {
		return game.PlayerState{}, err
	}
	balance, err := strconv.ParseInt(s[bIdx+1:iIdx], 10, 32)
	if err != nil {
		return game.PlayerState{}, invalid(s, "invalid button balance: %s", err)
	}
	income, err := strconv.ParseUint(s[iIdx+1:pIdx], 10, 8)
	if err != nil {
		return game.PlayerState{}, invalid(s, "invalid button income: %s", err)
	}
	position, err := strconv.ParseUint(s[pIdx+1:], 10, 16)
	if err != nil {
		return game.PlayerState{}, invalid(s, "invalid position: %s", err)
	}
	return game.PlayerState{
		Position:      uint8(position),
		ButtonBalance: int32(balance),
		Quilt:         board.QuiltBoard{Tiles: mask, ButtonIncome: uint8(income)},
	}, nil
}

// firstSpecialPatchPosition is the lowest of the five fixed special-patch
// track positions (board.TrackIndexToPosition(0) == 26); the "special?"
// validation rule in spec §6 ("must reject special=Y when no player has
// reached the first special-patch position") is checked against it.
var firstSpecialPatchPosition = board.TrackIndexToPosition(0)

const phantomSuffix = " (Phantom)"

// SerializeGame renders g in spec §6's single-line game notation.
func SerializeGame(g *game.GameState) string {
	var b strings.Builder
	b.WriteString(serializePlayer(g.Players[0]))
	b.WriteByte(' ')
	b.WriteString(serializePlayer(g.Players[1]))
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%d", uint8(g.Flags))
	b.WriteByte(' ')
	if g.Flags.IsSpecialTileConditionReached() {
		b.WriteString("Y")
	} else {
		b.WriteString("N")
	}
	b.WriteByte(' ')
	ids := make([]string, len(g.Market))
	for i, id := range g.Market {
		ids[i] = strconv.Itoa(int(id))
	}
	b.WriteString(strings.Join(ids, "/"))
	if g.TurnType.IsPhantom() {
		b.WriteString(phantomSuffix)
	}
	return b.String()
}

// ParseGame parses spec §6's game notation back into a GameState. When
// permissive is false, a trailing "(Phantom)" marker is rejected (spec §6:
// "Parsing must reject phantom notations unless a permissive flag is set").
// The reconstructed state's TurnType is Normal, or NormalPhantom when a
// permissive parse accepted the phantom marker (phantom notations carry no
// information about which phantom variant is pending, so SpecialPhantom is
// never reconstructed; callers that need the exact SpecialPhantom/
// NormalPhantom split should track it out of band).
func ParseGame(s string, lib *patch.Library, permissive bool) (*game.GameState, error) {
	original := s
	isPhantom := strings.HasSuffix(s, phantomSuffix)
	if isPhantom {
		if !permissive {
			return nil, invalid(original, "phantom notation rejected in strict mode")
		}
		s = strings.TrimSuffix(s, phantomSuffix)
	}

	fields := strings.Split(s, " ")
	if len(fields) != 5 {
		return nil, invalid(original, "expected 5 space-separated fields, got %d", len(fields))
	}

	p1, err := parsePlayer(fields[0])
	if err != nil {
		return nil, err
	}
	p2, err := parsePlayer(fields[1])
	if err != nil {
		return nil, err
	}

	flagsRaw, err := strconv.ParseUint(fields[2], 10, 8)
	if err != nil {
		return nil, invalid(original, "invalid status flags: %s", err)
	}
	flags := board.StatusFlags(flagsRaw)

	var special bool
	switch fields[3] {
	case "Y":
		special = true
	case "N":
		special = false
	default:
		return nil, invalid(original, "special marker must be Y or N, got %q", fields[3])
	}
	if special && p1.ClampedPosition() < firstSpecialPatchPosition && p2.ClampedPosition() < firstSpecialPatchPosition {
		return nil, invalid(original, "special=Y but neither player has reached position %d", firstSpecialPatchPosition)
	}

	market, err := parseMarket(fields[4], original)
	if err != nil {
		return nil, err
	}

	g := game.FromNotationParts(lib, p1, p2, flags, market)
	if special {
		g.Flags = g.Flags.WithSpecialTileClaimed(1)
	}
	if isPhantom {
		// The grammar's trailing " (Phantom)" marker does not distinguish
		// NormalPhantom from SpecialPhantom; permissive parsing always
		// reconstructs the former, which is the far more common case (a
		// SpecialPhantom can only arise mid-SpecialPatchPlacement).
		g.TurnType = board.NormalPhantom
	}
	return g, nil
}

func parseMarket(s string, original string) ([]uint8, error) {
	if s == "" {
		return nil, nil
	}
	sep := "/"
	if strings.Contains(s, "-") && !strings.Contains(s, "/") {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	seen := generics.MakeSet[uint8](len(parts))
	market := make([]uint8, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return nil, invalid(original, "invalid patch id %q in market: %s", p, err)
		}
		if id >= patch.StartingPatches+patch.NormalPatches {
			return nil, invalid(original, "patch id %d is not one of the %d non-special patches", id, patch.StartingPatches+patch.NormalPatches)
		}
		if seen.Has(uint8(id)) {
			return nil, invalid(original, "patch id %d appears twice in market, market must be a permutation of a subset", id)
		}
		seen.Insert(uint8(id))
		market = append(market, uint8(id))
	}
	return market, nil
}

// SerializeAction renders a in spec §6's action notation. The PatchPlacement
// form omits the optional trailing starting_index field: it is fully
// redundant with the acting player's position, which is already present in
// the enclosing game notation, and Action itself carries no such field (see
// DESIGN.md). ParseAction accepts the field back when present, for
// compatibility with notation produced elsewhere.
func SerializeAction(a action.Action) string {
	return a.String()
}

// ParseAction parses spec §6's action notation. lib resolves a
// PatchPlacement's precomputed placement index: the notation carries
// (rotation, orientation, row, col) but GameState.DoAction dispatches on the
// denser PlacementIndex into Library.Placements, so parsing must search that
// list for the placement the four notation fields describe.
func ParseAction(s string, lib *patch.Library) (action.Action, error) {
	if s == "" {
		return action.NullAction, invalid(s, "empty action notation")
	}
	switch s[0] {
	case 'N':
		return action.NullAction, nil
	case 'W':
		idx, err := strconv.ParseUint(s[1:], 10, 8)
		if err != nil {
			return action.Action{}, invalid(s, "invalid walking starting index: %s", err)
		}
		return action.NewWalking(uint8(idx)), nil
	case 'P':
		fields := strings.Split(s[1:], "/")
		if len(fields) != 6 && len(fields) != 7 {
			return action.Action{}, invalid(s, "patch placement expects 6 or 7 fields, got %d", len(fields))
		}
		nums, err := parseUints(s, fields[:6])
		if err != nil {
			return action.Action{}, err
		}
		patchID, patchIndex := uint8(nums[0]), uint8(nums[1])
		rotation, orientation, row, col := uint8(nums[2]), uint8(nums[3]), uint8(nums[4]), uint8(nums[5])

		placementIndex := -1
		for i, pl := range lib.Placements(patchID) {
			if pl.Rotation == rotation && pl.Orientation == orientation && pl.Row == row && pl.Col == col {
				placementIndex = i
				break
			}
		}
		if placementIndex < 0 {
			return action.Action{}, invalid(s, "no precomputed placement of patch %d matches rotation=%d orientation=%d row=%d col=%d", patchID, rotation, orientation, row, col)
		}
		return action.NewPatchPlacement(patchID, patchIndex, uint16(placementIndex), rotation, orientation, row, col), nil
	case 'S':
		fields := strings.Split(s[1:], "/")
		if len(fields) != 3 {
			return action.Action{}, invalid(s, "special patch placement expects 3 fields, got %d", len(fields))
		}
		nums, err := parseUints(s, fields)
		if err != nil {
			return action.Action{}, err
		}
		return action.NewSpecialPatchPlacement(uint8(nums[0]), uint8(nums[1]), uint8(nums[2])), nil
	default:
		return action.Action{}, invalid(s, "unrecognised action notation prefix %q", s[:1])
	}
}

func parseUints(original string, fields []string) ([]uint64, error) {
	nums := make([]uint64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, invalid(original, "invalid numeric field %q: %s", f, err)
		}
		nums[i] = n
	}
	return nums, nil
}
