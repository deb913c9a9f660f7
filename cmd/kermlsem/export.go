package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kermlsem/kermlsem/pkg/interchange"
	"github.com/kermlsem/kermlsem/pkg/ledger"
)

func newExportCmd() *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Scan the workspace and export its symbol set as an interchange model",
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
			if format == "" {
				format = cfg.Interchange.Format
			}

			model := interchange.ModelFromSymbols(ws.Index().AllSymbols())

			if cfg.Ledger.Enabled {
				led, err := ledger.Open(cfg.Ledger.Path, log)
				if err != nil {
					return fmt.Errorf("kermlsem: open ledger: %w", err)
				}
				defer led.Close()

				entries := make([]ledger.Entry, len(model.Elements))
				for i, el := range model.Elements {
					entries[i] = ledger.Entry{QualifiedName: el.QualifiedName, ElementID: el.ElementID, Kind: el.Kind}
				}
				if err := led.PutAll(entries); err != nil {
					return fmt.Errorf("kermlsem: persist ledger: %w", err)
				}
			}

			var data []byte
			switch format {
			case "xmi":
				data, err = interchange.MarshalXMI(model)
			case "yaml":
				data, err = interchange.MarshalYAML(model)
			case "jsonld", "":
				data, err = interchange.MarshalJSONLD(model)
			default:
				return fmt.Errorf("kermlsem: unknown export format %q", format)
			}
			if err != nil {
				return fmt.Errorf("kermlsem: export: %w", err)
			}

			if outPath == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "one of: xmi, jsonld, yaml (defaults to the config's interchange.format)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "file to write to (defaults to stdout)")
	return cmd
}
