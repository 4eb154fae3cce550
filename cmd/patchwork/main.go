// Command patchwork is the library's minimal host: a cobra CLI exposing the
// compare/play/upi/server surface from spec §6 over the three search
// engines in internal/searchers. The CLI/REPL itself is explicitly out of
// core scope (§6); this binary only has to honor the contract, not be
// polished.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/nicozeitz/patchwork/internal/profilers"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var globalCtx = context.Background()

func main() {
	klog.InitFlags(nil)

	root := &cobra.Command{
		Use:   "patchwork",
		Short: "Patchwork adversarial-search engine host",
	}
	root.AddCommand(newPlayCommand(), newCompareCommand(), newUPICommand(), newServerCommand())
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	var cancel context.CancelFunc
	globalCtx, cancel = context.WithCancel(context.Background())
	defer cancel()

	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
