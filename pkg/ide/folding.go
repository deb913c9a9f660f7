package ide

import (
	"github.com/kermlsem/kermlsem/pkg/cst"
)

// FoldingKind classifies what a folding range collapses.
type FoldingKind int

const (
	FoldingRegion FoldingKind = iota
	FoldingComment
)

// FoldingRange is one collapsible range, given as inclusive start/end lines.
type FoldingRange struct {
	StartLine int
	EndLine   int
	Kind      FoldingKind
}

// FoldingRanges walks tree's root and returns one range for every multi-line
// construct body (package, definition, usage, view) and every multi-line
// orphan comment block.
func FoldingRanges(tree *cst.Tree) []FoldingRange {
	var out []FoldingRange
	collectFoldingRanges(tree.Root.Children, &out)
	return out
}

func collectFoldingRanges(nodes []*cst.Node, out *[]FoldingRange) {
	for _, n := range nodes {
		switch n.Kind {
		case cst.KOrphanComment:
			if n.Span.EndLine > n.Span.StartLine {
				*out = append(*out, FoldingRange{StartLine: n.Span.StartLine, EndLine: n.Span.EndLine, Kind: FoldingComment})
			}
		case cst.KPackage, cst.KDefinition, cst.KUsage:
			if len(n.Children) > 0 && n.Span.EndLine > n.Span.StartLine {
				*out = append(*out, FoldingRange{StartLine: n.Span.StartLine, EndLine: n.Span.EndLine, Kind: FoldingRegion})
			}
			collectFoldingRanges(n.Children, out)
		}
	}
}
