package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "kermlsem.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_OverridesOnlySetFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kermlsem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
stdlib_path: /opt/kermlsem/stdlib
watch:
  debounce_ms: 500
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/kermlsem/stdlib", cfg.StdlibPath)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
	assert.Equal(t, DefaultConfig().Scan.Include, cfg.Scan.Include)
}

func TestResolveStdlibPath_FlagWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StdlibPath = "/from/config"
	assert.Equal(t, "/from/flag", ResolveStdlibPath("/from/flag", cfg))
	assert.Equal(t, "/from/config", ResolveStdlibPath("", cfg))
}

func TestFind_WalksUpToAncestor(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "kermlsem.yaml"), []byte("version: \"1\""), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, filepath.Join(root, "kermlsem.yaml"), Find(nested))
}

func TestFind_NotFound(t *testing.T) {
	assert.Equal(t, "", Find(t.TempDir()))
}
