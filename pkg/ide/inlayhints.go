package ide

import (
	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
)

// InlayHintKind classifies an inlay hint's purpose.
type InlayHintKind int

const (
	// InlayHintResolvedType marks a type reference written as a short name
	// that resolved to a different, fully qualified target — the hint
	// carries the qualified name so the short spelling isn't ambiguous at
	// a glance.
	InlayHintResolvedType InlayHintKind = iota
)

// InlayHint is a short label an editor renders inline, anchored at a
// position rather than covering a span.
type InlayHint struct {
	Pos   cst.Span
	Label string
	Kind  InlayHintKind
}

// InlayHints answers an inlay-hints request over file: for every resolved,
// single-part type reference whose written spelling differs from its
// resolved qualified name, it emits a hint giving the full name. Chain
// references and unresolved references produce no hint — there is nothing
// useful to disambiguate, or nothing known yet.
func InlayHints(idx *index.Index, file extractor.FileID) []InlayHint {
	var out []InlayHint
	for _, sym := range idx.SymbolsInFile(file) {
		for _, ref := range sym.TypeRefs {
			if ref.IsChain() {
				continue
			}
			part := ref.Parts[0]
			if part.ResolvedTarget == "" || part.ResolvedTarget == part.Target {
				continue
			}
			out = append(out, InlayHint{
				Pos:   endOf(part.Span),
				Label: part.ResolvedTarget,
				Kind:  InlayHintResolvedType,
			})
		}
	}
	return out
}

// endOf returns a zero-width span at s's end, where an inlay hint anchors.
func endOf(s cst.Span) cst.Span {
	return cst.Span{
		StartLine: s.EndLine, StartCol: s.EndCol,
		EndLine: s.EndLine, EndCol: s.EndCol,
	}
}
