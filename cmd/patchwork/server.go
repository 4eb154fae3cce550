package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newServerCommand is a stub: spec §6 lists "server [port] [public]" in the
// CLI contract core must honor, but an HTTP match server is explicitly a
// UI-layer concern outside core scope (see spec §1/§9's "any other 'global'
// ... is outside the core"). It is wired into the command surface so
// `patchwork server` exits 0 after stating that, rather than being an
// unrecognised subcommand.
func newServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "server [port] [public]",
		Short: "Start the match server (outside core scope; not implemented here)",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("server: the HTTP match server is a UI-layer concern outside this module's core scope")
			return nil
		},
	}
}
