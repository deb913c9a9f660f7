package interchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kermlsem/kermlsem/pkg/extractor"
)

func sampleModel() Model {
	return Model{Elements: []Element{
		{
			ElementID: "id-1", QualifiedName: "Vehicle", Name: "Vehicle", Kind: "PartDef",
			IsPublic: true, Doc: "a vehicle",
		},
		{
			ElementID: "id-2", QualifiedName: "Car", Name: "Car", Kind: "PartDef",
			Supertypes: []string{"Vehicle"}, IsPublic: true, Metadata: []string{"safety"},
		},
	}}
}

func TestModelFromSymbols_SkipsImportsAndComments(t *testing.T) {
	symbols := []*extractor.Symbol{
		{Kind: extractor.KindImport, QualifiedName: "Other::*"},
		{Kind: extractor.KindComment, QualifiedName: ""},
		{Kind: extractor.KindPartDef, Name: "Vehicle", QualifiedName: "Vehicle", ElementID: "id-1"},
	}
	model := ModelFromSymbols(symbols)
	require.Len(t, model.Elements, 1)
	assert.Equal(t, "Vehicle", model.Elements[0].Name)
}

func TestSymbolsFromModel_RoundTrip(t *testing.T) {
	model := sampleModel()
	symbols := SymbolsFromModel(model)
	require.Len(t, symbols, 2)
	assert.Equal(t, extractor.KindPartDef, symbols[1].Kind)
	assert.Equal(t, []string{"Vehicle"}, symbols[1].Supertypes)
	assert.Equal(t, extractor.FileID(0), symbols[0].File)

	back := ModelFromSymbols(symbols)
	assert.Equal(t, model, back)
}

func TestApplyMetadata_PreservesKnownIDsAndLeavesOthers(t *testing.T) {
	model := sampleModel()
	model.Elements[0].ElementID = "fresh-1"
	ApplyMetadata(&model, map[string]string{"Vehicle": "id-1"})
	assert.Equal(t, "id-1", model.Elements[0].ElementID)
	assert.Equal(t, "id-2", model.Elements[1].ElementID)
}

func TestXMI_RoundTripPreservesElementID(t *testing.T) {
	model := sampleModel()
	data, err := MarshalXMI(model)
	require.NoError(t, err)

	back, err := UnmarshalXMI(data)
	require.NoError(t, err)
	assert.Equal(t, model, back)
}

func TestJSONLD_RoundTripPreservesElementID(t *testing.T) {
	model := sampleModel()
	data, err := MarshalJSONLD(model)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"@context"`)

	back, err := UnmarshalJSONLD(data)
	require.NoError(t, err)
	assert.Equal(t, model, back)
}

func TestYAML_RoundTripPreservesElementID(t *testing.T) {
	model := sampleModel()
	data, err := MarshalYAML(model)
	require.NoError(t, err)

	back, err := UnmarshalYAML(data)
	require.NoError(t, err)
	assert.Equal(t, model, back)
}

func TestRoundTrip_NewElementsGetDistinctIDs(t *testing.T) {
	model := sampleModel()
	data, err := MarshalJSONLD(model)
	require.NoError(t, err)
	imported, err := UnmarshalJSONLD(data)
	require.NoError(t, err)

	imported.Elements = append(imported.Elements, Element{
		ElementID: "id-3", QualifiedName: "Truck", Name: "Truck", Kind: "PartDef",
	})

	seen := map[string]bool{}
	for _, el := range imported.Elements {
		assert.False(t, seen[el.ElementID], "duplicate element id %s", el.ElementID)
		seen[el.ElementID] = true
	}
	assert.True(t, seen["id-1"] && seen["id-2"] && seen["id-3"])
}
