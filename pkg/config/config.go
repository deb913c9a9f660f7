// Package config loads kermlsem.yaml, the per-workspace project settings
// file: a missing file is not an error, every field has a DefaultConfig
// fallback, and an explicit flag value always overrides the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ScanConfig controls pkg/workspace.ScanDirectory defaults.
type ScanConfig struct {
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
	MaxWorkers int      `yaml:"max_workers"`
	MmapMinKB  int      `yaml:"mmap_min_kb"`
}

// WatchConfig controls pkg/workspace.Watch defaults.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
}

// InterchangeConfig controls pkg/interchange defaults.
type InterchangeConfig struct {
	Format string `yaml:"format"`
}

// LedgerConfig controls pkg/ledger defaults.
type LedgerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the contents of kermlsem.yaml.
type Config struct {
	Version     string            `yaml:"version"`
	StdlibPath  string            `yaml:"stdlib_path"`
	Scan        ScanConfig        `yaml:"scan"`
	Watch       WatchConfig       `yaml:"watch"`
	Interchange InterchangeConfig `yaml:"interchange"`
	Ledger      LedgerConfig      `yaml:"ledger"`
}

// DefaultConfig returns a fully-populated Config with every field at its
// zero-config default, used whenever kermlsem.yaml is absent or a field is
// left unset within it.
func DefaultConfig() Config {
	return Config{
		Version:    "1",
		StdlibPath: "",
		Scan: ScanConfig{
			Include:    []string{"**/*.kerml", "**/*.sysml"},
			Exclude:    []string{"**/.git/**", "**/node_modules/**"},
			MaxWorkers: 0,
			MmapMinKB:  256,
		},
		Watch: WatchConfig{DebounceMs: 200},
		Interchange: InterchangeConfig{
			Format: "jsonld",
		},
		Ledger: LedgerConfig{
			Enabled: false,
			Path:    ".kermlsem/ledger.db",
		},
	}
}

// Load reads path, overlaying its fields on top of DefaultConfig. A missing
// file returns the defaults with no error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	mergeOverrides(&cfg, file)
	return cfg, nil
}

// mergeOverrides copies every non-zero field of file onto cfg.
func mergeOverrides(cfg *Config, file Config) {
	if file.Version != "" {
		cfg.Version = file.Version
	}
	if file.StdlibPath != "" {
		cfg.StdlibPath = file.StdlibPath
	}
	if len(file.Scan.Include) > 0 {
		cfg.Scan.Include = file.Scan.Include
	}
	if len(file.Scan.Exclude) > 0 {
		cfg.Scan.Exclude = file.Scan.Exclude
	}
	if file.Scan.MaxWorkers != 0 {
		cfg.Scan.MaxWorkers = file.Scan.MaxWorkers
	}
	if file.Scan.MmapMinKB != 0 {
		cfg.Scan.MmapMinKB = file.Scan.MmapMinKB
	}
	if file.Watch.DebounceMs != 0 {
		cfg.Watch.DebounceMs = file.Watch.DebounceMs
	}
	if file.Interchange.Format != "" {
		cfg.Interchange.Format = file.Interchange.Format
	}
	cfg.Ledger.Enabled = cfg.Ledger.Enabled || file.Ledger.Enabled
	if file.Ledger.Path != "" {
		cfg.Ledger.Path = file.Ledger.Path
	}
}

// ResolveStdlibPath applies the flag-overrides-file-overrides-default chain:
// a non-empty flagValue always wins, otherwise cfg.StdlibPath, otherwise the
// empty string, which callers take to mean "use the embedded stdlib".
func ResolveStdlibPath(flagValue string, cfg Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.StdlibPath
}

// Find locates kermlsem.yaml starting at dir and walking up to the
// filesystem root, returning "" if none is found.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, "kermlsem.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
