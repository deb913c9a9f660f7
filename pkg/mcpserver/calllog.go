package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// CallLogEntry is the schema for one JSONL line written per MCP tool call.
type CallLogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	Error         *string        `json:"error"`
}

// CallLogger appends structured JSONL entries to a file, one per tool call.
// It is safe for concurrent use.
type CallLogger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewCallLogger opens (or creates) the file at path for append-only
// writing. Parent directories are created automatically. Returns nil, nil
// if path is empty — callers treat a nil CallLogger as disabled.
func NewCallLogger(path string) (*CallLogger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcpserver: create call log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: open call log file: %w", err)
	}
	return &CallLogger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends a single JSONL entry. Errors are returned but are typically
// ignored by the caller so that log failures never affect tool call results.
func (l *CallLogger) Write(entry CallLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying log file.
func (l *CallLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// sanitizeParams returns a copy of args safe for logging. String values
// longer than shortStringMax bytes are replaced with a "{key}_len" integer
// entry so that large file contents or exported models are never written to
// the call log.
func sanitizeParams(args map[string]any) map[string]any {
	const shortStringMax = 64
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// responseBytes returns the serialized byte length of a CallToolResult's
// content. Returns 0 for a nil result or on marshal error.
func responseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// nowFunc is a replaceable clock for testing.
var nowFunc = func() time.Time { return time.Now() }
