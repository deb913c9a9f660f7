// Command kermlsem is the CLI front end for the incremental SysML v2/KerML
// semantic analysis engine: scan a workspace, watch it for changes, serve
// it over MCP, check a file for diagnostics, or move its symbol set through
// the interchange formats.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagWorkspace string
	flagConfig    string
	flagStdlib    string
	flagVerbose   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "kermlsem",
		Short:   "Incremental semantic analysis engine for SysML v2 and KerML",
		Version: "0.1.0-dev",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagWorkspace, "workspace", ".", "workspace root directory")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to kermlsem.yaml (defaults to the nearest ancestor)")
	root.PersistentFlags().StringVar(&flagStdlib, "stdlib", "", "path to a directory of .kerml/.sysml stdlib files (defaults to the embedded prelude)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newScanCmd(),
		newWatchCmd(),
		newServeCmd(),
		newCheckCmd(),
		newExportCmd(),
		newImportCmd(),
	)
	return root
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
