// Package view implements the view applicator: it turns a view's
// expose/filter clauses into a deterministic, ordered, deduplicated list of
// qualified names.
package view

import (
	"strings"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
)

// Apply evaluates viewSym's expose/filter clauses against idx and returns
// the ordered, deduplicated qualified-name result set.
func Apply(viewSym *extractor.Symbol, idx *index.Index) []string {
	if len(viewSym.Exposes) == 0 {
		return nil
	}

	exposed := map[string]bool{}
	for _, exp := range viewSym.Exposes {
		for _, qn := range exposedFor(exp, idx) {
			exposed[qn] = true
		}
	}

	predicates := make([]func(*extractor.Symbol) bool, 0, len(viewSym.Filters))
	for _, f := range viewSym.Filters {
		predicates = append(predicates, metadataPredicate(f))
	}

	var ordered []string
	for _, sym := range idx.AllSymbols() {
		qn := sym.QualifiedName
		if !exposed[qn] {
			continue
		}
		if matchesAll(sym, predicates) {
			ordered = append(ordered, qn)
		}
	}
	return dedupPreserveOrder(ordered)
}

func exposedFor(exp cst.ExposeClause, idx *index.Index) []string {
	switch exp.Kind {
	case cst.WildcardNone:
		if _, ok := idx.LookupQualified(exp.Target); ok {
			return []string{exp.Target}
		}
		return nil
	case cst.WildcardDirect:
		var out []string
		prefix := exp.Target + "::"
		for _, sym := range idx.AllSymbols() {
			rest := strings.TrimPrefix(sym.QualifiedName, prefix)
			if rest == sym.QualifiedName || rest == "" {
				continue
			}
			if !strings.Contains(rest, "::") {
				out = append(out, sym.QualifiedName)
			}
		}
		return out
	case cst.WildcardRecursive:
		var out []string
		prefix := exp.Target + "::"
		for _, sym := range idx.AllSymbols() {
			if strings.HasPrefix(sym.QualifiedName, prefix) {
				out = append(out, sym.QualifiedName)
			}
		}
		return out
	}
	return nil
}

// metadataPredicate builds a predicate matching symbols whose metadata name
// list contains name, or whose list contains a qualified metadata name
// ending in "::"+name ("PartUsage" matches "SysML::PartUsage").
func metadataPredicate(name string) func(*extractor.Symbol) bool {
	suffix := "::" + name
	return func(sym *extractor.Symbol) bool {
		for _, m := range metadataNames(sym) {
			if m == name || strings.HasSuffix(m, suffix) {
				return true
			}
		}
		return false
	}
}

// metadataNames is a symbol's implicit kind-derived metadata name (e.g.
// "SysML::PartUsage") plus every explicit `#Name` annotation it carries.
func metadataNames(sym *extractor.Symbol) []string {
	names := make([]string, 0, 1+len(sym.MetadataAnnotations))
	if sym.Kind != extractor.KindOther {
		names = append(names, "SysML::"+sym.Kind.String())
	}
	names = append(names, sym.MetadataAnnotations...)
	return names
}

func matchesAll(sym *extractor.Symbol, predicates []func(*extractor.Symbol) bool) bool {
	for _, p := range predicates {
		if !p(sym) {
			return false
		}
	}
	return true
}

// dedupPreserveOrder removes duplicates, keeping the first occurrence's
// position — ordered is already in the index's document order by
// construction.
func dedupPreserveOrder(qns []string) []string {
	seen := map[string]bool{}
	out := qns[:0]
	for _, qn := range qns {
		if seen[qn] {
			continue
		}
		seen[qn] = true
		out = append(out, qn)
	}
	return out
}
