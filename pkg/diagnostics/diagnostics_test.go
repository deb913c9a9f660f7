package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/resolver"
)

func buildChecked(t *testing.T, src string) *index.Index {
	t.Helper()
	idx := index.New(index.DefaultConfig(), nil)
	tree := cst.Parse([]byte(src))
	require.Empty(t, tree.Errors)
	idx.AddFile(1, extractor.NewExtractor(nil).Extract(1, tree, nil))
	resolver.New(idx, nil).ResolveAllTypeRefs()
	return idx
}

func TestCheckFile_UnresolvedReference(t *testing.T) {
	idx := buildChecked(t, `part def Car :> Nonexistent;`)
	diags := CheckFile(idx, 1)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if d.Code == CodeUnresolvedReference {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckFile_NoDiagnosticsForValidModel(t *testing.T) {
	idx := buildChecked(t, `part def Vehicle; part def Car :> Vehicle;`)
	diags := CheckFile(idx, 1)
	for _, d := range diags {
		assert.NotEqual(t, CodeUnresolvedReference, d.Code)
	}
}

func TestCheckFile_DuplicateName(t *testing.T) {
	idx := buildChecked(t, `part def Vehicle; part def Vehicle;`)
	diags := CheckFile(idx, 1)
	found := false
	for _, d := range diags {
		if d.Code == CodeDuplicateName {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckFile_UnusedImport(t *testing.T) {
	idx := buildChecked(t, `package Base { part def Vehicle; } public import Base::Vehicle;`)
	diags := CheckFile(idx, 1)
	found := false
	for _, d := range diags {
		if d.Code == CodeUnusedImport {
			found = true
		}
	}
	assert.True(t, found)
}
