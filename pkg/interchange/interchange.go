// Package interchange serializes the symbol set to and from XMI, JSON-LD,
// and YAML, preserving the ElementId identity invariant across round-trips:
// an element imported with a given ElementId must be re-exported with that
// same id, and newly created elements get ids distinct from every imported
// one.
package interchange

import (
	"github.com/kermlsem/kermlsem/pkg/extractor"
)

// Model is the interchange-level representation of a symbol set: flat,
// format-agnostic, and stripped of anything that is reconstructible purely
// from re-parsing (byte spans, parser-internal bookkeeping). A Model round
// trips through any of this package's three formats without loss of the
// fields it carries.
type Model struct {
	Elements []Element
}

// Element is one interchange-level symbol.
type Element struct {
	ElementID     string
	QualifiedName string
	Name          string
	ShortName     string
	Kind          string
	Supertypes    []string
	Doc           string
	IsPublic      bool
	IsAbstract    bool
	Metadata      []string
}

// importedFile is the reserved FileID assigned to symbols materialized by
// SymbolsFromModel: an imported model has no source file of its own until
// the caller assigns its elements to a real workspace file (or leaves them
// under this synthetic one, for a read-only imported view).
const importedFile extractor.FileID = 0

// ModelFromSymbols flattens a symbol set into a Model, in document order.
func ModelFromSymbols(symbols []*extractor.Symbol) Model {
	elements := make([]Element, 0, len(symbols))
	for _, sym := range symbols {
		if sym.Kind == extractor.KindComment || sym.Kind == extractor.KindImport {
			continue
		}
		elements = append(elements, Element{
			ElementID:     sym.ElementID,
			QualifiedName: sym.QualifiedName,
			Name:          sym.Name,
			ShortName:     sym.ShortName,
			Kind:          sym.Kind.String(),
			Supertypes:    append([]string(nil), sym.Supertypes...),
			Doc:           sym.Doc,
			IsPublic:      sym.IsPublic,
			IsAbstract:    sym.IsAbstract,
			Metadata:      append([]string(nil), sym.MetadataAnnotations...),
		})
	}
	return Model{Elements: elements}
}

// SymbolsFromModel reconstructs symbols from a Model. The result carries no
// span information (a Model has none) and is assigned the reserved
// importedFile FileID; a caller that wants these treated as a real
// workspace file should re-tag File on the returned symbols before calling
// Index.AddFile.
func SymbolsFromModel(model Model) []*extractor.Symbol {
	out := make([]*extractor.Symbol, 0, len(model.Elements))
	for _, el := range model.Elements {
		out = append(out, &extractor.Symbol{
			Name:                el.Name,
			ShortName:           el.ShortName,
			HasShortName:        el.ShortName != "",
			QualifiedName:       el.QualifiedName,
			ElementID:           el.ElementID,
			Kind:                extractor.KindFromString(el.Kind),
			File:                importedFile,
			Doc:                 el.Doc,
			Supertypes:          el.Supertypes,
			IsPublic:            el.IsPublic,
			IsAbstract:          el.IsAbstract,
			MetadataAnnotations: el.Metadata,
		})
	}
	return out
}

// ApplyMetadata rewrites model's ElementIds from a qualified_name →
// ElementId side table, so that re-importing a model previously exported
// with known ids reproduces those same ids rather than minting fresh ones.
// Elements with no entry in metadata keep whatever id they already carry.
func ApplyMetadata(model *Model, metadata map[string]string) {
	for i := range model.Elements {
		if id, ok := metadata[model.Elements[i].QualifiedName]; ok {
			model.Elements[i].ElementID = id
		}
	}
}
