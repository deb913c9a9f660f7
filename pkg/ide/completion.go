package ide

import (
	"strings"

	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
)

// CompletionKind classifies a suggestion for client-side icon/sort
// rendering. It deliberately doesn't embed an LSP item-kind number; that
// mapping belongs at the protocol boundary, not in this package.
type CompletionKind int

const (
	CompletionDefinition CompletionKind = iota
	CompletionUsage
	CompletionPackage
	CompletionKeyword
)

// CompletionItem is one suggestion.
type CompletionItem struct {
	Label         string
	Kind          CompletionKind
	Detail        string
	Documentation string
	SortPriority  int
}

func completionFromSymbol(sym *extractor.Symbol) CompletionItem {
	kind := CompletionUsage
	switch {
	case sym.Kind == extractor.KindPackage:
		kind = CompletionPackage
	case sym.Kind.IsDefinition():
		kind = CompletionDefinition
	}

	item := CompletionItem{Label: sym.Name, Kind: kind, SortPriority: 100, Documentation: sym.Doc}
	if len(sym.Supertypes) > 0 {
		item.Detail = ": " + strings.Join(sym.Supertypes, ", ")
	} else {
		item.Detail = sym.Kind.String()
	}
	return item
}

// keywords is the fixed set of declaration keywords always offered at
// top-level/member-declaration position.
var keywords = []string{
	"package", "part", "item", "action", "port", "attribute", "connection",
	"interface", "allocation", "requirement", "constraint", "state",
	"calculation", "view", "viewpoint", "import", "alias", "def", "usage",
	"private", "public", "expose", "filter",
}

// Completions suggests completions at (line, col): every definition when
// the cursor is on a type reference; otherwise, when the cursor is inside a
// symbol, the direct members of the scope memberAccessScope picks; and
// otherwise every indexed symbol plus the fixed keyword list. No trigger
// character is taken into account.
func Completions(idx *index.Index, file extractor.FileID, line, col int) []CompletionItem {
	if ref := findTypeRefAt(idx, file, line, col); ref != nil {
		var items []CompletionItem
		for _, sym := range idx.AllSymbols() {
			if !sym.Kind.IsDefinition() {
				continue
			}
			item := completionFromSymbol(sym)
			item.SortPriority = 10
			items = append(items, item)
		}
		return items
	}

	if scope := memberAccessScope(idx, file, line, col); scope != "" {
		prefix := scope + "::"
		var items []CompletionItem
		for _, sym := range idx.AllSymbols() {
			rest := strings.TrimPrefix(sym.QualifiedName, prefix)
			if rest == sym.QualifiedName || rest == "" || strings.Contains(rest, "::") {
				continue
			}
			items = append(items, completionFromSymbol(sym))
		}
		return items
	}

	var items []CompletionItem
	for _, sym := range idx.AllSymbols() {
		items = append(items, completionFromSymbol(sym))
	}
	for _, kw := range keywords {
		items = append(items, CompletionItem{Label: kw, Kind: CompletionKeyword, SortPriority: 50})
	}
	return items
}

// memberAccessScope picks the scope whose direct members are offered at
// (line, col): the smallest symbol containing the cursor if it is a
// definition or package, otherwise that symbol's parent scope, or "" if no
// symbol contains the cursor. This package has no raw source text to scan
// (only extracted symbols), so it does not check for a "Pkg::" prefix
// before the cursor.
func memberAccessScope(idx *index.Index, file extractor.FileID, line, col int) string {
	sym := findSymbolAt(idx, file, line, col)
	if sym == nil {
		return ""
	}
	if sym.Kind.IsDefinition() || sym.Kind == extractor.KindPackage {
		return sym.QualifiedName
	}
	return parentScope(sym.QualifiedName)
}
