package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kermlsem/kermlsem/pkg/mcpserver"
)

func newServeCmd() *cobra.Command {
	var callLogPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Scan the workspace and start an MCP server on stdio",
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

			callLog, err := mcpserver.NewCallLogger(callLogPath)
			if err != nil {
				return fmt.Errorf("kermlsem: open call log: %w", err)
			}

			srv := mcpserver.NewServer(ws, callLog, log)
			defer srv.Close()

			return srv.ServeStdio()
		},
	}

	cmd.Flags().StringVar(&callLogPath, "call-log", "", "JSONL file to record every MCP tool call to (disabled by default)")
	return cmd
}
