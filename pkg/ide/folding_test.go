package ide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/cst"
)

func TestFoldingRanges_MultiLineDefinitionBody(t *testing.T) {
	tree := cst.Parse([]byte("part def Vehicle {\n\tpart engine;\n}\n"))
	require.Empty(t, tree.Errors)

	ranges := FoldingRanges(tree)
	require.NotEmpty(t, ranges)
	assert.Equal(t, 0, ranges[0].StartLine)
	assert.Equal(t, 2, ranges[0].EndLine)
	assert.Equal(t, FoldingRegion, ranges[0].Kind)
}

func TestFoldingRanges_SingleLineConstructNotFolded(t *testing.T) {
	tree := cst.Parse([]byte(`part def Vehicle;`))
	require.Empty(t, tree.Errors)
	assert.Empty(t, FoldingRanges(tree))
}

func TestFoldingRanges_NestedBodiesEachFold(t *testing.T) {
	tree := cst.Parse([]byte("package P {\n\tpart def Vehicle {\n\t\tpart engine;\n\t}\n}\n"))
	require.Empty(t, tree.Errors)

	ranges := FoldingRanges(tree)
	require.Len(t, ranges, 2)
}
