package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the workspace directory and report symbol counts",
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

			stats := ws.Index().Stats()
			fmt.Printf("files: %d\n", stats.IndexedFiles)
			fmt.Printf("symbols: %d\n", stats.TotalSymbols)
			return nil
		},
	}
}
