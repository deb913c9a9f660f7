package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kermlsem/kermlsem/pkg/config"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/workspace"
)

// loadConfig resolves kermlsem.yaml following the --config flag, falling
// back to the nearest ancestor of --workspace, per config.Find.
func loadConfig() (config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.Find(flagWorkspace)
	}
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

// newWorkspace builds a Workspace, loads the stdlib prelude (embedded
// unless --stdlib or the config's stdlib_path overrides it), and scans
// --workspace's directory tree. It returns only the workspace; cfg stays
// with the caller for any further config-driven behavior (e.g. ledger path).
func newWorkspace(cfg config.Config, log *slog.Logger) (*workspace.Workspace, error) {
	ws := workspace.New(index.DefaultConfig(), log)

	stdlibPath := config.ResolveStdlibPath(flagStdlib, cfg)
	if stdlibPath == "" {
		if err := ws.LoadStdlib(workspace.DefaultStdlib()); err != nil {
			return nil, fmt.Errorf("kermlsem: load embedded stdlib: %w", err)
		}
	} else {
		if err := ws.LoadStdlib(os.DirFS(stdlibPath)); err != nil {
			return nil, fmt.Errorf("kermlsem: load stdlib from %s: %w", stdlibPath, err)
		}
	}

	opts := workspace.DefaultScanOptions()
	if len(cfg.Scan.Include) > 0 {
		opts.IncludeGlobs = cfg.Scan.Include
	}
	if len(cfg.Scan.Exclude) > 0 {
		opts.ExcludeGlobs = cfg.Scan.Exclude
	}
	if cfg.Scan.MaxWorkers > 0 {
		opts.NumWorkers = cfg.Scan.MaxWorkers
	}
	if cfg.Scan.MmapMinKB > 0 {
		opts.MmapThreshold = int64(cfg.Scan.MmapMinKB) * 1024
	}

	stats, err := ws.ScanDirectory(flagWorkspace, opts, nil)
	if err != nil {
		return nil, fmt.Errorf("kermlsem: scan %s: %w", flagWorkspace, err)
	}
	ws.ResolveAll()
	log.Info("workspace scanned", "files", stats.FilesScanned, "failed", stats.FilesFailed)

	return ws, nil
}
