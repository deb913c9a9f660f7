package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kermlsem/kermlsem/pkg/interchange"
	"github.com/kermlsem/kermlsem/pkg/ledger"
)

func newImportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Parse an interchange model file and report the symbols it would add",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Interchange.Format
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("kermlsem: read %s: %w", args[0], err)
			}

			var model interchange.Model
			switch format {
			case "xmi":
				model, err = interchange.UnmarshalXMI(data)
			case "yaml":
				model, err = interchange.UnmarshalYAML(data)
			case "jsonld", "":
				model, err = interchange.UnmarshalJSONLD(data)
			default:
				return fmt.Errorf("kermlsem: unknown import format %q", format)
			}
			if err != nil {
				return fmt.Errorf("kermlsem: import: %w", err)
			}

			if cfg.Ledger.Enabled {
				led, err := ledger.Open(cfg.Ledger.Path, log)
				if err != nil {
					return fmt.Errorf("kermlsem: open ledger: %w", err)
				}
				defer led.Close()

				known, err := led.LoadAll()
				if err != nil {
					return fmt.Errorf("kermlsem: load ledger: %w", err)
				}
				interchange.ApplyMetadata(&model, known)
			}

			symbols := interchange.SymbolsFromModel(model)
			fmt.Printf("imported %d element(s) from %s\n", len(symbols), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "one of: xmi, jsonld, yaml (defaults to the config's interchange.format)")
	return cmd
}
