package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kermlsem/kermlsem/pkg/workspace"
)

func newWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Scan the workspace, then watch it for changes and re-index incrementally",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ws, err := newWorkspace(cfg, log)
			if err != nil {
				return err
			}

			opts := workspace.DefaultWatchOptions()
			if debounceMs > 0 {
				opts.DebounceMs = debounceMs
			} else if cfg.Watch.DebounceMs > 0 {
				opts.DebounceMs = cfg.Watch.DebounceMs
			}

			watcher, err := ws.Watch(flagWorkspace, opts)
			if err != nil {
				return fmt.Errorf("kermlsem: watch %s: %w", flagWorkspace, err)
			}
			defer watcher.Stop()

			fmt.Printf("watching %s (Ctrl+C to stop)\n", flagWorkspace)
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce-ms", 0, "debounce interval for re-indexing after a file change (overrides config)")
	return cmd
}
