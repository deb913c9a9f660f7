package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kermlsem/kermlsem/pkg/diagnostics"
)

func newCheckCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Scan the workspace, then report semantic diagnostics for one file",
		Args:  cobra.ExactArgs(1),
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

			path := args[0]
			diags := ws.CheckFile(path)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(diags); err != nil {
					return err
				}
			} else {
				printDiagnostics(path, diags)
			}

			if hasError(diags) {
				os.Exit(2)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit diagnostics as a JSON array")
	return cmd
}

func hasError(diags []diagnostics.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diagnostics.SeverityError {
			return true
		}
	}
	return false
}

func printDiagnostics(path string, diags []diagnostics.Diagnostic) {
	if len(diags) == 0 {
		fmt.Printf("✓ %s — no diagnostics\n", path)
		return
	}
	fmt.Printf("✗ %s — %d diagnostic(s)\n", path, len(diags))
	for _, d := range diags {
		sev := strings.ToUpper(string(d.Severity))
		fmt.Printf("  [%s] line %d:%d  %s  (%s)\n", sev, d.Span.StartLine, d.Span.StartCol, d.Message, d.Code)
		if len(d.Candidates) > 0 {
			fmt.Printf("         candidates: %s\n", strings.Join(d.Candidates, ", "))
		}
	}
}
