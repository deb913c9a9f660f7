package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
)

func extract(t *testing.T, fileID extractor.FileID, src string) []*extractor.Symbol {
	t.Helper()
	tree := cst.Parse([]byte(src))
	require.Empty(t, tree.Errors)
	return extractor.NewExtractor(nil).Extract(fileID, tree, nil)
}

func TestIndex_LookupQualifiedAndSimple(t *testing.T) {
	idx := New(DefaultConfig(), nil)
	idx.AddFile(1, extract(t, 1, `part def Car :> Vehicle;`))

	sym, ok := idx.LookupQualified("Car")
	require.True(t, ok)
	assert.Equal(t, "Car", sym.Name)

	byName := idx.LookupSimple("Car")
	require.Len(t, byName, 1)
	assert.Same(t, sym, byName[0])

	_, ok = idx.LookupQualified("Nope")
	assert.False(t, ok)
}

func TestIndex_AddFileReplacesAtomically(t *testing.T) {
	idx := New(DefaultConfig(), nil)
	idx.AddFile(1, extract(t, 1, `part def Car;`))
	idx.AddFile(1, extract(t, 1, `part def Truck;`))

	_, ok := idx.LookupQualified("Car")
	assert.False(t, ok, "stale symbol from the previous version of file 1 must be gone")
	_, ok = idx.LookupQualified("Truck")
	assert.True(t, ok)
	assert.Len(t, idx.SymbolsInFile(1), 1)
}

func TestIndex_RemoveFile(t *testing.T) {
	idx := New(DefaultConfig(), nil)
	idx.AddFile(1, extract(t, 1, `part def Car;`))
	idx.RemoveFile(1)

	_, ok := idx.LookupQualified("Car")
	assert.False(t, ok)
	assert.Empty(t, idx.AllSymbols())
}

func TestIndex_ReverseReferences(t *testing.T) {
	idx := New(DefaultConfig(), nil)
	idx.AddFile(1, extract(t, 1, `part def Car :> Vehicle;`))

	sites := idx.ReverseReferences("Vehicle")
	require.Len(t, sites, 1)
	assert.Equal(t, "Car", sites[0].FromQualifiedName)
}

func TestIndex_VisibilityCacheInvalidatesOnMutation(t *testing.T) {
	idx := New(DefaultConfig(), nil)
	idx.AddFile(1, extract(t, 1, `part def Car;`))
	idx.SetVisibility("", NewVisibilityMap())
	idx.MarkVisibilityReady()

	_, ok := idx.GetVisibility("")
	require.True(t, ok)
	assert.True(t, idx.VisibilityReady())

	idx.AddFile(2, extract(t, 2, `part def Truck;`))

	_, ok = idx.GetVisibility("")
	assert.False(t, ok, "any file mutation must drop the whole visibility cache")
	assert.False(t, idx.VisibilityReady())
}

func TestIndex_AllSymbolsPreservesFileOrder(t *testing.T) {
	idx := New(DefaultConfig(), nil)
	idx.AddFile(2, extract(t, 2, `part def B;`))
	idx.AddFile(1, extract(t, 1, `part def A;`))

	all := idx.AllSymbols()
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].Name)
	assert.Equal(t, "A", all[1].Name)
}

func TestIndex_Stats(t *testing.T) {
	idx := New(DefaultConfig(), nil)
	idx.AddFile(1, extract(t, 1, `part def Car :> Vehicle;`))

	stats := idx.Stats()
	assert.Equal(t, 1, stats.IndexedFiles)
	assert.Equal(t, 1, stats.TotalSymbols)
}
