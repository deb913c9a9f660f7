package cst

import (
	"log/slog"
	"sync/atomic"
)

// Manager is the long-lived owner of parsing for a workspace. It mirrors
// the shape of a pooled parser manager (one construction point, logging,
// usage stats) without the pooling machinery itself: unlike a tree-sitter
// binding, this parser allocates no foreign memory and needs no per-call
// checkout/Close lifecycle, so a single Manager value may be shared freely
// across goroutines performing read-only Parse calls.
type Manager struct {
	logger *slog.Logger

	parsesCalled atomic.Int64
}

// NewManager creates a Manager. A nil logger defaults to slog.Default().
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger}
}

// Parse tokenizes and parses source text for path, logging a debug summary
// of the result.
func (m *Manager) Parse(path string, source []byte) *Tree {
	m.parsesCalled.Add(1)
	tree := Parse(source)
	m.logger.Debug("parsed file",
		"path", path,
		"errors", len(tree.Errors),
		"members", len(tree.Root.Children))
	return tree
}

// ParsesCalled reports how many times Parse has been invoked.
func (m *Manager) ParsesCalled() int { return int(m.parsesCalled.Load()) }
