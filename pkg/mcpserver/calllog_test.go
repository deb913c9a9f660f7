package mcpserver

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeParams(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		wantKeys map[string]bool
		wantSkip map[string]bool
	}{
		{name: "nil map returns empty", input: nil, wantKeys: map[string]bool{}},
		{name: "short string passes through", input: map[string]any{"file": "a.sysml"}, wantKeys: map[string]bool{"file": true}},
		{
			name:     "long string replaced with _len key",
			input:    map[string]any{"content": string(make([]byte, 200))},
			wantKeys: map[string]bool{"content_len": true},
			wantSkip: map[string]bool{"content": true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := sanitizeParams(tc.input)
			for k := range tc.wantKeys {
				assert.Contains(t, out, k)
			}
			for k := range tc.wantSkip {
				assert.NotContains(t, out, k)
			}
		})
	}
}

func TestResponseBytes_Nil(t *testing.T) {
	assert.Equal(t, 0, responseBytes(nil))
}

func TestCallLogger_WriteAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calls.jsonl")

	logger, err := NewCallLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	entries := []CallLogEntry{
		{Ts: time.Now().UTC().Format(time.RFC3339), Tool: "hover", DurationMs: 5, ResponseBytes: 100, TokensEst: 25},
		{Ts: time.Now().UTC().Format(time.RFC3339), Tool: "export_model", Params: map[string]any{"format": "jsonld"}, DurationMs: 42},
	}
	for _, e := range entries {
		require.NoError(t, logger.Write(e))
	}
	require.NoError(t, logger.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []CallLogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e CallLogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		got = append(got, e)
	}
	require.Len(t, got, len(entries))
	assert.Equal(t, "hover", got[0].Tool)
	assert.Equal(t, "export_model", got[1].Tool)
}

func TestCallLogger_Concurrency(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "concurrent.jsonl")

	logger, err := NewCallLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	const goroutines, writesEach = 20, 10
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(CallLogEntry{Ts: time.Now().UTC().Format(time.RFC3339), Tool: "hover"})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e CallLogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e), "torn write at line %d", count+1)
		count++
	}
	assert.Equal(t, goroutines*writesEach, count)
}

func TestNewCallLogger_EmptyPathDisabled(t *testing.T) {
	logger, err := NewCallLogger("")
	require.NoError(t, err)
	assert.Nil(t, logger)
}

func TestNewCallLogger_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "calls.jsonl")
	logger, err := NewCallLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
