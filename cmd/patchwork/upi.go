package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/notation"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/players"
	"github.com/spf13/cobra"
)

// newUPICommand implements the Universal Patchwork Interface, a UCI-style
// line protocol (see upi/src/lib.rs: "upi"/"isready"/"position"/"go"/"quit")
// read from stdin and answered on stdout.
func newUPICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upi",
		Short: "Run the Universal Patchwork Interface (UCI-style) REPL over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUPI(os.Stdin, os.Stdout)
		},
	}
	return cmd
}

type upiSession struct {
	playerCfg string
	g         *game.GameState
}

func runUPI(in *os.File, out *os.File) error {
	sess := &upiSession{playerCfg: players.DefaultPlayerConfig}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch strings.ToLower(fields[0]) {
		case "upi":
			fmt.Fprintln(out, "id name patchwork")
			fmt.Fprintln(out, "id author patchwork")
			fmt.Fprintln(out, "upiok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "setoption":
			sess.handleSetOption(fields[1:])
		case "position":
			if err := sess.handlePosition(fields[1:]); err != nil {
				fmt.Fprintf(out, "error: %s\n", err)
			}
		case "go":
			sess.handleGo(out, fields[1:])
		case "stop":
			// Searches here run to their own deadline rather than being
			// interruptible mid-flight from a second line of input; stop is
			// accepted but has nothing further to cancel.
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintln(out, "unknown command")
		}
	}
	return scanner.Err()
}

// handleSetOption accepts "setoption name <key> value <value>", mapping
// directly onto the comma-separated config string internal/players parses;
// repeated calls accumulate onto the pending configuration.
func (s *upiSession) handleSetOption(fields []string) {
	var name, value string
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "name":
			if i+1 < len(fields) {
				name = fields[i+1]
			}
		case "value":
			if i+1 < len(fields) {
				value = fields[i+1]
			}
		}
	}
	if name == "" {
		return
	}
	if s.playerCfg == "" || s.playerCfg == players.DefaultPlayerConfig {
		s.playerCfg = ""
	} else {
		s.playerCfg += ","
	}
	if value != "" {
		s.playerCfg += name + "=" + value
	} else {
		s.playerCfg += name
	}
}

func (s *upiSession) handlePosition(fields []string) error {
	if len(fields) == 0 {
		return fmt.Errorf("upi: position requires an argument")
	}
	var g *game.GameState
	var err error
	switch fields[0] {
	case "startpos":
		g = game.InitialState(patch.Default, nil)
		fields = fields[1:]
	default:
		end := len(fields)
		for i, f := range fields {
			if f == "moves" {
				end = i
				break
			}
		}
		g, err = notation.ParseGame(strings.Join(fields[:end], " "), patch.Default, true)
		if err != nil {
			return err
		}
		fields = fields[end:]
	}

	if len(fields) > 0 && fields[0] == "moves" {
		for _, m := range fields[1:] {
			a, err := notation.ParseAction(m, patch.Default)
			if err != nil {
				return err
			}
			if err := g.DoAction(a, true); err != nil {
				return err
			}
		}
	}
	s.g = g
	return nil
}

func (s *upiSession) handleGo(out *os.File, fields []string) {
	if s.g == nil {
		s.g = game.InitialState(patch.Default, nil)
	}
	cfg := s.playerCfg
	for i := 0; i < len(fields); i++ {
		if fields[i] == "movetime" && i+1 < len(fields) {
			if ms, err := strconv.Atoi(fields[i+1]); err == nil {
				cfg += fmt.Sprintf(",max_time=%s", time.Duration(ms)*time.Millisecond)
			}
		}
	}
	p, err := players.New(cfg)
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}
	defer p.Finalize()

	chosen, score, _, err := p.Play(s.g)
	if err != nil {
		fmt.Fprintf(out, "error: %s\n", err)
		return
	}
	fmt.Fprintf(out, "info score cp %d\n", int(score))
	fmt.Fprintf(out, "bestmove %s\n", notation.SerializeAction(chosen))
}
