// Package cli implements a terminal renderer for Patchwork matches, the way
// the teacher's internal/ui/cli renders Hive boards: plain text laid out
// with lipgloss styling, with the separator line capped at the terminal width.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"golang.org/x/term"
)

var (
	filledStyle = lipgloss.NewStyle().Background(lipgloss.Color("6")).Foreground(lipgloss.Color("0"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
)

// terminalWidth returns the current terminal width, falling back to 80
// columns when stdout isn't a terminal (piped output, tests).
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func quiltBoardLines(q patch.Mask81) []string {
	lines := make([]string, patch.BoardSize)
	for r := 0; r < patch.BoardSize; r++ {
		var b strings.Builder
		for c := 0; c < patch.BoardSize; c++ {
			if q.IsSet(r*patch.BoardSize + c) {
				b.WriteString(filledStyle.Render("██"))
			} else {
				b.WriteString(emptyStyle.Render("··"))
			}
		}
		lines[r] = b.String()
	}
	return lines
}

// PrintBoard renders both players' quilt boards side by side, their button
// balances and positions, and the current market.
func PrintBoard(g *game.GameState) {
	p1Lines := quiltBoardLines(g.Players[0].Quilt.Tiles)
	p2Lines := quiltBoardLines(g.Players[1].Quilt.Tiles)

	fmt.Println(headerStyle.Render(fmt.Sprintf("Player 1 (buttons=%d pos=%d)", g.Players[0].ButtonBalance, g.Players[0].Position)) +
		strings.Repeat(" ", 6) +
		headerStyle.Render(fmt.Sprintf("Player 2 (buttons=%d pos=%d)", g.Players[1].ButtonBalance, g.Players[1].Position)))
	for i := range p1Lines {
		fmt.Printf("%s      %s\n", p1Lines[i], p2Lines[i])
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Market:"))
	for i, id := range g.Market {
		if i >= 3 {
			break
		}
		p := g.Library.Patch(id)
		fmt.Printf("  [%d] patch %d (cost=%d, time=%d, income=%d)\n", i, p.ID, p.ButtonCost, p.TimeCost, p.ButtonIncome)
	}
	fmt.Println(strings.Repeat("-", min(terminalWidth(), 60)))
}

// PrintActionWithScore renders a chosen action and its evaluation, the way
// the teacher's PrettyPrintActionsWithPolicy reports a move before applying
// it.
func PrintActionWithScore(a action.Action, score float32) {
	fmt.Printf("chosen: %-30s score=%.2f\n", a.String(), score)
}
