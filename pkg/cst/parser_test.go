package cst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PartDef(t *testing.T) {
	tree := Parse([]byte(`part def Vehicle;`))
	require.Empty(t, tree.Errors)
	require.Len(t, tree.Root.Children, 1)

	n := tree.Root.Children[0]
	assert.Equal(t, KDefinition, n.Kind)
	assert.Equal(t, "part", n.Keyword)
	assert.Equal(t, "Vehicle", n.Name)
}

func TestParse_Specializes(t *testing.T) {
	tree := Parse([]byte(`part def Car :> Vehicle;`))
	require.Empty(t, tree.Errors)
	n := tree.Root.Children[0]
	require.Len(t, n.TypeRefs, 1)
	assert.Equal(t, RefSpecializes, n.TypeRefs[0].Kind)
	assert.Equal(t, "Vehicle", n.TypeRefs[0].Target())
}

func TestParse_UsageSubsets(t *testing.T) {
	tree := Parse([]byte(`item def Shape :> Path { item tfe :> edges; }`))
	require.Empty(t, tree.Errors)
	def := tree.Root.Children[0]
	require.Len(t, def.Children, 1)
	usage := def.Children[0]
	assert.Equal(t, KUsage, usage.Kind)
	require.Len(t, usage.TypeRefs, 1)
	assert.Equal(t, RefSubsets, usage.TypeRefs[0].Kind)
}

func TestParse_PackageAndImport(t *testing.T) {
	src := `package ISQ { public import ISQBase::*; }`
	tree := Parse([]byte(src))
	require.Empty(t, tree.Errors)
	pkg := tree.Root.Children[0]
	require.Equal(t, KPackage, pkg.Kind)
	require.Len(t, pkg.Children, 1)
	imp := pkg.Children[0]
	assert.Equal(t, KImport, imp.Kind)
	assert.Equal(t, "ISQBase", imp.ImportTarget)
	assert.Equal(t, WildcardDirect, imp.ImportKind)
	assert.True(t, imp.ImportPublic)
}

func TestParse_RecursiveImport(t *testing.T) {
	tree := Parse([]byte(`import P::*::**;`))
	require.Empty(t, tree.Errors)
	imp := tree.Root.Children[0]
	assert.Equal(t, WildcardRecursive, imp.ImportKind)
	assert.Equal(t, "P", imp.ImportTarget)
}

func TestParse_ChainValueExpression(t *testing.T) {
	src := `part def Vehicle { part engine : Engine; attribute total = engine.mass; }`
	tree := Parse([]byte(src))
	require.Empty(t, tree.Errors)
	def := tree.Root.Children[0]
	require.Len(t, def.Children, 2)
	attr := def.Children[1]
	require.Len(t, attr.TypeRefs, 1)
	ref := attr.TypeRefs[0]
	assert.True(t, ref.IsChain())
	assert.Equal(t, "engine", ref.Parts[0].Text)
	assert.Equal(t, "mass", ref.Parts[1].Text)
}

func TestParse_ViewExposeFilter(t *testing.T) {
	src := `view def V { expose Model::*; filter PartUsage; }`
	tree := Parse([]byte(src))
	require.Empty(t, tree.Errors)
	v := tree.Root.Children[0]
	require.Len(t, v.Exposes, 1)
	assert.Equal(t, "Model", v.Exposes[0].Target)
	assert.Equal(t, WildcardDirect, v.Exposes[0].Kind)
	require.Len(t, v.Filters, 1)
}

func TestParse_DocComment(t *testing.T) {
	src := "/// a vehicle\npart def Vehicle;"
	tree := Parse([]byte(src))
	require.Empty(t, tree.Errors)
	n := tree.Root.Children[0]
	assert.Contains(t, n.Doc, "a vehicle")
}

func TestParse_SpanContainment(t *testing.T) {
	tree := Parse([]byte(`part def Car :> Vehicle;`))
	n := tree.Root.Children[0]
	for _, ref := range n.TypeRefs {
		assert.True(t, n.Span.Contains(ref.Span))
	}
}
