// Package ide answers the editor-facing queries: hover, goto
// definition/type-definition, find-references, completions, document links,
// folding ranges, semantic tokens, and inlay hints. Every query degrades
// gracefully (empty result, never an error) — a malformed or half-typed
// model should never crash an editor session.
package ide

import (
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
)

// refAtPosition is the CST-level detail needed once a TypeRef is found to
// contain (line, col): the resolved (or raw) target name, the owning
// TypeRef, the ChainPart actually under the cursor, and the symbol the ref
// belongs to.
type refAtPosition struct {
	target string
	ref    *extractor.TypeRef
	part   *extractor.ChainPart
	owner  *extractor.Symbol
}

// findTypeRefAt scans every symbol in file for a TypeRef part spanning
// (line, col), preferring the part's resolved target when one was recorded
// by resolver.ResolveAllTypeRefs.
func findTypeRefAt(idx *index.Index, file extractor.FileID, line, col int) *refAtPosition {
	for _, sym := range idx.SymbolsInFile(file) {
		for i := range sym.TypeRefs {
			ref := &sym.TypeRefs[i]
			for j := range ref.Parts {
				part := &ref.Parts[j]
				if part.Span.ContainsPos(line, col) {
					target := part.Target
					if part.ResolvedTarget != "" {
						target = part.ResolvedTarget
					}
					return &refAtPosition{target: target, ref: ref, part: part, owner: sym}
				}
			}
		}
	}
	return nil
}

// findSymbolAt returns the smallest symbol (by span area) in file containing
// (line, col), or nil if the position falls outside every symbol.
func findSymbolAt(idx *index.Index, file extractor.FileID, line, col int) *extractor.Symbol {
	var best *extractor.Symbol
	for _, sym := range idx.SymbolsInFile(file) {
		inSpan := sym.Span.ContainsPos(line, col)
		inShortName := sym.HasShortName && sym.ShortNameSpan.ContainsPos(line, col)
		if !inSpan && !inShortName {
			continue
		}
		if best == nil || symbolSize(sym) < symbolSize(best) {
			best = sym
		}
	}
	return best
}

func symbolSize(sym *extractor.Symbol) int {
	lineDiff := sym.Span.EndLine - sym.Span.StartLine
	colDiff := sym.Span.EndCol - sym.Span.StartCol
	if lineDiff < 0 {
		lineDiff = 0
	}
	if colDiff < 0 {
		colDiff = 0
	}
	return lineDiff*1000 + colDiff
}

// parentScope returns qn's enclosing scope's qualified name, "" at the root.
func parentScope(qn string) string {
	for i := len(qn) - 2; i >= 0; i-- {
		if qn[i] == ':' && qn[i+1] == ':' {
			return qn[:i]
		}
	}
	return ""
}

// findDefinitionByName resolves a possibly-unqualified name to a single
// definition symbol via exact qualified lookup, then simple-name lookup (if
// unambiguous), then qualified-suffix match — the fallback chain used when
// a TypeRef carries no resolved target (e.g. before ResolveAllTypeRefs has
// run, or for a name the resolver could not place).
func findDefinitionByName(idx *index.Index, name string) *extractor.Symbol {
	if sym, ok := idx.LookupDefinition(name); ok {
		return sym
	}
	simple := lastSegment(name)
	var defs []*extractor.Symbol
	for _, sym := range idx.LookupSimple(simple) {
		if sym.Kind.IsDefinition() {
			defs = append(defs, sym)
		}
	}
	if len(defs) == 1 {
		return defs[0]
	}
	suffix := "::" + name
	for _, sym := range idx.AllSymbols() {
		if !sym.Kind.IsDefinition() {
			continue
		}
		if sym.QualifiedName == name || hasSuffix(sym.QualifiedName, suffix) {
			return sym
		}
	}
	return nil
}

func lastSegment(qn string) string {
	for i := len(qn) - 2; i >= 0; i-- {
		if qn[i] == ':' && qn[i+1] == ':' {
			return qn[i+2:]
		}
	}
	return qn
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
