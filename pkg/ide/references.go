package ide

import (
	"fmt"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
)

// Reference is one occurrence — a declaration or a textual TypeRef — of a
// symbol.
type Reference struct {
	File         extractor.FileID
	Span         cst.Span
	IsDefinition bool
	Kind         extractor.Kind
}

// FindReferences locates every reference to the symbol or type under
// (line, col). includeDeclaration controls whether the definition itself is
// included alongside its usages.
func FindReferences(idx *index.Index, file extractor.FileID, line, col int, includeDeclaration bool) []Reference {
	var targetName string
	if ref := findTypeRefAt(idx, file, line, col); ref != nil {
		targetName = ref.target
	} else {
		sym := findSymbolAt(idx, file, line, col)
		if sym == nil {
			return nil
		}
		if sym.Kind.IsDefinition() {
			targetName = sym.QualifiedName
		} else if len(sym.Supertypes) > 0 {
			targetName = sym.Supertypes[0]
		} else {
			targetName = sym.QualifiedName
		}
	}
	return referencesTo(idx, targetName, includeDeclaration)
}

func referencesTo(idx *index.Index, targetName string, includeDeclaration bool) []Reference {
	var out []Reference

	def := findDefinitionByName(idx, targetName)
	if def != nil && includeDeclaration {
		out = append(out, Reference{File: def.File, Span: def.Span, IsDefinition: true, Kind: def.Kind})
	}

	seen := map[string]bool{}
	markSeen := func(r Reference) bool {
		key := fmt.Sprintf("%d@%d:%d", r.File, r.Span.StartLine, r.Span.StartCol)
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	}
	for _, r := range out {
		markSeen(r)
	}

	for _, sym := range idx.AllSymbols() {
		for i := range sym.TypeRefs {
			ref := &sym.TypeRefs[i]
			for j := range ref.Parts {
				part := &ref.Parts[j]
				effective := part.Target
				if part.ResolvedTarget != "" {
					effective = part.ResolvedTarget
				}
				if effective != targetName {
					continue
				}
				r := Reference{File: sym.File, Span: part.Span, IsDefinition: false, Kind: extractor.KindOther}
				if markSeen(r) {
					out = append(out, r)
				}
			}
		}
	}

	// Direct-name matches for non-TypeRef-bearing occurrences (e.g. package
	// references in expose/import clauses without a recorded TypeRef).
	for _, sym := range idx.AllSymbols() {
		if sym.Name != targetName || sym.Kind.IsDefinition() {
			continue
		}
		r := Reference{File: sym.File, Span: sym.Span, IsDefinition: false, Kind: sym.Kind}
		if markSeen(r) {
			out = append(out, r)
		}
	}

	return out
}
