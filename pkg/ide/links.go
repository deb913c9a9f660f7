package ide

import (
	"strings"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/resolver"
)

// DocumentLink is one clickable span: an import target or a type reference,
// pointing at the definition it names.
type DocumentLink struct {
	Span       cst.Span
	TargetFile extractor.FileID
	TargetSpan cst.Span
	Tooltip    string
}

// DocumentLinks collects every clickable reference in file: each import
// clause, and every TypeRef occurrence that resolves to a known symbol.
func DocumentLinks(idx *index.Index, file extractor.FileID) []DocumentLink {
	var links []DocumentLink
	res := resolver.New(idx, nil)

	for _, sym := range idx.SymbolsInFile(file) {
		if sym.Kind == extractor.KindImport {
			path := strings.TrimSuffix(strings.TrimSuffix(sym.ImportTarget, "::*"), "::**")
			scope := parentScope(sym.QualifiedName)
			var target *extractor.Symbol
			switch result := res.Resolve(path, scope); result.Outcome {
			case resolver.Found:
				target = result.Symbol
			case resolver.Ambiguous:
				if len(result.Candidates) > 0 {
					target = result.Candidates[0]
				}
			case resolver.NotFound:
				if t, ok := idx.LookupQualified(path); ok {
					target = t
				}
			}
			if target != nil {
				links = append(links, DocumentLink{
					Span: sym.Span, TargetFile: target.File, TargetSpan: target.Span,
					Tooltip: "Go to " + target.QualifiedName,
				})
			}
			continue
		}

		for i := range sym.TypeRefs {
			ref := &sym.TypeRefs[i]
			for j := range ref.Parts {
				part := &ref.Parts[j]
				qn := part.ResolvedTarget
				if qn == "" {
					qn = part.Target
				}
				if target, ok := idx.LookupQualified(qn); ok {
					links = append(links, DocumentLink{
						Span: part.Span, TargetFile: target.File, TargetSpan: target.Span,
						Tooltip: "Go to " + qn,
					})
				}
			}
		}
	}

	return links
}
