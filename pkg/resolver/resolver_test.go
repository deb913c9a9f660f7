package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/visibility"
)

func buildResolver(t *testing.T, sources ...string) *Resolver {
	t.Helper()
	idx := index.New(index.DefaultConfig(), nil)
	ex := extractor.NewExtractor(nil)
	for i, src := range sources {
		tree := cst.Parse([]byte(src))
		require.Empty(t, tree.Errors, src)
		idx.AddFile(extractor.FileID(i+1), ex.Extract(extractor.FileID(i+1), tree, nil))
	}
	return New(idx, visibility.New(idx, nil))
}

func TestResolver_QualifiedLookup(t *testing.T) {
	r := buildResolver(t, `package Base { part def Vehicle; }`)
	res := r.ResolveQualified("Base::Vehicle")
	require.Equal(t, Found, res.Outcome)
	assert.Equal(t, "Base::Vehicle", res.Symbol.QualifiedName)
}

func TestResolver_NamespaceImportBringsNameIntoScope(t *testing.T) {
	r := buildResolver(t, `
		package Base { part def Vehicle; }
		public import Base::*;
		package Derived { part car : Vehicle; }
	`)
	res := r.Resolve("Vehicle", "Derived")
	require.Equal(t, Found, res.Outcome)
	assert.Equal(t, "Base::Vehicle", res.Symbol.QualifiedName)
}

func TestResolver_SpecializationInheritance(t *testing.T) {
	r := buildResolver(t, `
		part def Vehicle { part engine; }
		part def Car :> Vehicle;
	`)
	res := r.FindMemberInScope("Car", "engine")
	require.Equal(t, Found, res.Outcome)
	assert.Equal(t, "Vehicle::engine", res.Symbol.QualifiedName)
}

func TestResolver_SubsettingInheritance(t *testing.T) {
	// `:>` on a usage binds as Subsets; members of the subsetted usage must
	// still be reachable.
	r := buildResolver(t, `part def Shape { item edges { item segment; } item tfe :> edges; }`)
	res := r.FindMemberInScope("Shape::tfe", "segment")
	require.Equal(t, Found, res.Outcome)
	assert.Equal(t, "Shape::edges::segment", res.Symbol.QualifiedName)
}

func TestResolver_FeatureChain(t *testing.T) {
	r := buildResolver(t, `
		part def Engine { attribute mass; }
		part def Vehicle { part engine : Engine; attribute total = engine.mass; }
	`)
	res := r.ResolveFeatureChain([]string{"engine", "mass"}, "Vehicle")
	require.Equal(t, Found, res.Outcome)
	assert.Equal(t, "Engine::mass", res.Symbol.QualifiedName)
}

func TestResolver_SegmentedQualifiedResolutionThroughWildcardImport(t *testing.T) {
	r := buildResolver(t, `
		package ISQBase { attribute def MassValue; }
		package ISQ { public import ISQBase::*; }
	`)
	res := r.ResolveQualified("ISQ::MassValue")
	require.Equal(t, Found, res.Outcome)
	assert.Equal(t, "ISQBase::MassValue", res.Symbol.QualifiedName)
}

func TestResolver_AliasTransparency(t *testing.T) {
	r := buildResolver(t, `
		part def Vehicle;
		alias Car for Vehicle;
	`)
	res := r.Resolve("Car", "")
	require.Equal(t, Found, res.Outcome)
	assert.Equal(t, "Vehicle", res.Symbol.QualifiedName)
}

func TestResolver_UnknownMemberOfDuplicatedNameIsNotFound(t *testing.T) {
	r := buildResolver(t, `part def X; `, `part def X;`)
	res := r.Resolve("X::nonexistent::suffix", "")
	assert.Equal(t, NotFound, res.Outcome)
}

func TestResolver_NotFound(t *testing.T) {
	r := buildResolver(t, `part def Vehicle;`)
	res := r.Resolve("DoesNotExist", "")
	assert.Equal(t, NotFound, res.Outcome)
}

func TestResolver_ResolveAllTypeRefsFillsResolvedTarget(t *testing.T) {
	idx := index.New(index.DefaultConfig(), nil)
	ex := extractor.NewExtractor(nil)
	tree := cst.Parse([]byte(`part def Vehicle; part def Car :> Vehicle;`))
	require.Empty(t, tree.Errors)
	idx.AddFile(1, ex.Extract(1, tree, nil))
	r := New(idx, visibility.New(idx, nil))

	r.ResolveAllTypeRefs()

	car, ok := idx.LookupQualified("Car")
	require.True(t, ok)
	require.Len(t, car.TypeRefs, 1)
	assert.Equal(t, "Vehicle", car.TypeRefs[0].Parts[0].ResolvedTarget)
}
