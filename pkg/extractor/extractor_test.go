package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/cst"
)

func extractSrc(t *testing.T, src string) []*Symbol {
	t.Helper()
	tree := cst.Parse([]byte(src))
	require.Empty(t, tree.Errors)
	ex := NewExtractor(nil)
	return ex.Extract(1, tree, nil)
}

func TestExtract_PartDefWithSpecialization(t *testing.T) {
	syms := extractSrc(t, `part def Car :> Vehicle;`)
	require.Len(t, syms, 1)
	s := syms[0]
	assert.Equal(t, "Car", s.Name)
	assert.Equal(t, KindPartDef, s.Kind)
	assert.Equal(t, []string{"Vehicle"}, s.Supertypes)
}

func TestExtract_NestedQualifiedNames(t *testing.T) {
	syms := extractSrc(t, `package ISQBase { attribute def MassValue; }`)
	require.Len(t, syms, 2)
	assert.Equal(t, "ISQBase", syms[0].QualifiedName)
	assert.Equal(t, "ISQBase::MassValue", syms[1].QualifiedName)
}

func TestExtract_Determinism(t *testing.T) {
	src := `part def Vehicle { part engine : Engine; attribute total = engine.mass; }`
	a := extractSrc(t, src)
	b := extractSrc(t, src)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].QualifiedName, b[i].QualifiedName)
		assert.Equal(t, a[i].ElementID, b[i].ElementID)
	}
}

func TestExtract_NamedSubsettingUsage(t *testing.T) {
	syms := extractSrc(t, `item def Shape :> Path { item tfe :> edges; }`)
	require.Len(t, syms, 2)
	// "tfe" has a name, so the usage keeps it in its qualified name and
	// subsets edges.
	assert.Equal(t, "Shape::tfe", syms[1].QualifiedName)
	assert.Equal(t, []string{"edges"}, syms[1].Supertypes)
}

func TestExtract_SpanContainment(t *testing.T) {
	syms := extractSrc(t, `part def Car :> Vehicle;`)
	for _, ref := range syms[0].TypeRefs {
		assert.True(t, syms[0].Span.Contains(ref.Span))
	}
}

func TestExtract_ImportSymbol(t *testing.T) {
	syms := extractSrc(t, `package ISQ { public import ISQBase::*; }`)
	require.Len(t, syms, 2)
	imp := syms[1]
	assert.Equal(t, KindImport, imp.Kind)
	assert.Equal(t, "ISQBase", imp.ImportTarget)
	assert.Equal(t, cst.WildcardDirect, imp.ImportKind)
	assert.True(t, imp.ImportPublic)
}
