package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/index"
)

func TestWorkspace_SetAndRemoveFileContent(t *testing.T) {
	ws := New(index.DefaultConfig(), nil)
	errs := ws.SetFileContent("a.sysml", []byte(`part def Vehicle;`))
	assert.Empty(t, errs)
	ws.ResolveAll()

	hover := ws.Hover("a.sysml", 0, 10)
	require.NotNil(t, hover)
	assert.Equal(t, "Vehicle", hover.QualifiedName)

	ws.RemoveFile("a.sysml")
	assert.Nil(t, ws.Hover("a.sysml", 0, 10))
}

func TestWorkspace_SetFileContentPreservesElementIDAcrossEdits(t *testing.T) {
	ws := New(index.DefaultConfig(), nil)
	ws.SetFileContent("a.sysml", []byte(`part def Vehicle;`))
	sym1, ok := ws.Index().LookupQualified("Vehicle")
	require.True(t, ok)
	id1 := sym1.ElementID

	ws.SetFileContent("a.sysml", []byte(`part def Vehicle;
`))
	sym2, ok := ws.Index().LookupQualified("Vehicle")
	require.True(t, ok)
	assert.Equal(t, id1, sym2.ElementID)
}

func TestWorkspace_GotoDefinitionAndReferences(t *testing.T) {
	ws := New(index.DefaultConfig(), nil)
	ws.SetFileContent("a.sysml", []byte(`part def Engine; part def Car { part engine : Engine; }`))
	ws.ResolveAll()

	sym, ok := ws.Index().LookupQualified("Car::engine")
	require.True(t, ok)
	part := sym.TypeRefs[0].Parts[0]

	targets := ws.GotoDefinition("a.sysml", part.Span.StartLine, part.Span.StartCol)
	require.Len(t, targets, 1)
	assert.Equal(t, "Engine", targets[0].Name)

	refs := ws.FindReferences("a.sysml", part.Span.StartLine, part.Span.StartCol, true)
	assert.NotEmpty(t, refs)
}

func TestWorkspace_ScanDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sysml"), []byte(`part def Vehicle;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.sysml"), []byte(`part def Car :> Vehicle;`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte(`not sysml`), 0o644))

	ws := New(index.DefaultConfig(), nil)
	stats, err := ws.ScanDirectory(dir, DefaultScanOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, 0, stats.FilesFailed)

	_, ok := ws.Index().LookupQualified("Vehicle")
	assert.True(t, ok)
}

func TestWorkspace_LoadStdlib(t *testing.T) {
	ws := New(index.DefaultConfig(), nil)
	require.NoError(t, ws.LoadStdlib(DefaultStdlib()))

	_, ok := ws.Index().LookupQualified("Base::Anything")
	assert.True(t, ok)
	_, ok = ws.Index().LookupQualified("ScalarValues::Integer")
	assert.True(t, ok)
}

func TestWorkspace_Watch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sysml")
	require.NoError(t, os.WriteFile(path, []byte(`part def Vehicle;`), 0o644))

	ws := New(index.DefaultConfig(), nil)
	_, err := ws.ScanDirectory(dir, DefaultScanOptions(), nil)
	require.NoError(t, err)

	watcher, err := ws.Watch(dir, WatchOptions{DebounceMs: 10})
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte(`part def Vehicle; part def Car :> Vehicle;`), 0o644))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := ws.Index().LookupQualified("Car"); ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("watcher did not pick up file change within deadline")
}
