package ide

import (
	"strings"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/resolver"
)

// HoverResult is the markdown content shown for a position, plus enough
// identity to let a caller offer a "find references" follow-up.
type HoverResult struct {
	Contents      string
	QualifiedName string
	IsDefinition  bool
	Span          cst.Span
}

// Hover answers a hover request at (line, col) in file, or nil if there is
// nothing to show — no error on a position that resolves to nothing.
func Hover(idx *index.Index, file extractor.FileID, line, col int) *HoverResult {
	if ref := findTypeRefAt(idx, file, line, col); ref != nil {
		target := resolveRefTarget(idx, ref)
		if target != nil {
			return &HoverResult{
				Contents:      buildHoverContent(target, idx),
				QualifiedName: target.QualifiedName,
				IsDefinition:  target.Kind.IsDefinition(),
				Span:          ref.part.Span,
			}
		}
	}

	sym := findSymbolAt(idx, file, line, col)
	if sym == nil {
		return nil
	}
	return &HoverResult{
		Contents:      buildHoverContent(sym, idx),
		QualifiedName: sym.QualifiedName,
		IsDefinition:  sym.Kind.IsDefinition(),
		Span:          sym.Span,
	}
}

// resolveRefTarget finds the symbol a TypeRef occurrence points at: the
// pre-resolved target if ResolveAllTypeRefs already ran, otherwise a
// best-effort resolve at query time.
func resolveRefTarget(idx *index.Index, ref *refAtPosition) *extractor.Symbol {
	if ref.part.ResolvedTarget != "" {
		if sym, ok := idx.LookupQualified(ref.part.ResolvedTarget); ok {
			return sym
		}
	}
	scope := parentScope(ref.owner.QualifiedName)
	res := resolver.New(idx, nil).Resolve(ref.part.Target, scope)
	switch res.Outcome {
	case resolver.Found:
		return res.Symbol
	case resolver.Ambiguous:
		if len(res.Candidates) > 0 {
			return res.Candidates[0]
		}
	}
	return findDefinitionByName(idx, ref.part.Target)
}

func buildHoverContent(sym *extractor.Symbol, idx *index.Index) string {
	var b strings.Builder
	b.WriteString("```sysml\n")
	b.WriteString(buildSignature(sym))
	b.WriteString("\n```\n")

	if sym.Doc != "" {
		b.WriteString("\n---\n\n")
		b.WriteString(sym.Doc)
		b.WriteString("\n")
	}

	if sym.Kind.IsUsage() && len(sym.Supertypes) > 0 {
		b.WriteString("\n**Typed by:** ")
		b.WriteString(strings.Join(sym.Supertypes, ", "))
		if typeSym, ok := idx.LookupDefinition(sym.Supertypes[0]); ok && typeSym.Doc != "" {
			first := typeSym.Doc
			if i := strings.IndexByte(first, '.'); i >= 0 {
				first = first[:i]
			}
			b.WriteString("\n\n*")
			b.WriteString(strings.TrimSpace(first))
			b.WriteString("*")
		}
		b.WriteString("\n")
	}

	b.WriteString("\n**Qualified Name:** `")
	b.WriteString(sym.QualifiedName)
	b.WriteString("`\n")
	return b.String()
}

// buildSignature renders a one-line declaration for sym, used as the
// fenced-code header of a hover popup.
func buildSignature(sym *extractor.Symbol) string {
	name := sym.Name
	if sym.HasShortName && sym.ShortName != sym.Name {
		name = "<" + sym.ShortName + "> " + sym.Name
	}

	// Render the kind as its source keywords: "PartDef" → "part def",
	// "PartUsage" → "part".
	kw := sym.Kind.String()
	if base, ok := strings.CutSuffix(kw, "Def"); ok {
		kw = strings.ToLower(base) + " def"
	} else if base, ok := strings.CutSuffix(kw, "Usage"); ok {
		kw = strings.ToLower(base)
	}

	switch {
	case sym.Kind.IsDefinition() && sym.Kind != extractor.KindPackage:
		sig := kw + " " + name
		if len(sym.Supertypes) > 0 {
			sig += " :> " + strings.Join(sym.Supertypes, ", ")
		}
		return sig
	case sym.Kind.IsUsage():
		sig := kw + " " + name
		if len(sym.Supertypes) > 0 {
			sig += " : " + sym.Supertypes[0]
		}
		return sig
	case sym.Kind == extractor.KindPackage:
		return "package " + name
	case sym.Kind == extractor.KindImport:
		return "import " + sym.Name
	case sym.Kind == extractor.KindAlias:
		if sym.AliasTarget != "" {
			return "alias " + name + " for " + sym.AliasTarget
		}
		return "alias " + name
	default:
		return name
	}
}
