package extractor

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kermlsem/kermlsem/pkg/cst"
)

// elementIDNamespace seeds deterministic ElementId minting: freshly-minted
// IDs are a UUIDv5 of the qualified name, so the same text re-extracted at
// the same position always mints the same ID.
var elementIDNamespace = uuid.MustParse("8f14e45f-ceea-467e-bd7f-f0385b6f5e41")

// Extractor performs a single depth-first walk of the CST that builds the
// flat per-file symbol list, tagging every type reference by its
// grammatical role.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger defaults to
// slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// PresetElementIDs maps qualified_name → ElementId for symbols recovered
// from an interchange import. Extract consults this table before minting a
// fresh ID.
type PresetElementIDs map[string]string

// Extract walks tree and returns the flat, document-ordered symbol list for
// fileID. It is pure: the same (fileID, tree, presets) always yields the
// same symbols.
func (e *Extractor) Extract(fileID FileID, tree *cst.Tree, presets PresetElementIDs) []*Symbol {
	w := &walker{fileID: fileID, presets: presets, anonCounters: map[string]int{}}
	w.walkChildren(tree.Root.Children, "")
	e.logger.Debug("extracted file", "file", int(fileID), "symbols", len(w.symbols))
	return w.symbols
}

type walker struct {
	fileID       FileID
	presets      PresetElementIDs
	anonCounters map[string]int
	symbols      []*Symbol
}

func join(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "::" + name
}

// syntheticName mints the deterministic anonymous-symbol format
// "<OP:target#N@Ln>", where N disambiguates within scope and Ln is the
// declaration's starting line.
func (w *walker) syntheticName(scope, op, target string, line int) string {
	key := fmt.Sprintf("%s|%s|%s", scope, op, target)
	n := w.anonCounters[key]
	w.anonCounters[key] = n + 1
	return fmt.Sprintf("<%s:%s#%d@L%d>", op, target, n, line)
}

func (w *walker) mintElementID(qn string) string {
	if id, ok := w.presets[qn]; ok {
		return id
	}
	return uuid.NewSHA1(elementIDNamespace, []byte(qn)).String()
}

func (w *walker) walkChildren(children []*cst.Node, scope string) {
	for _, child := range children {
		w.walkOne(child, scope)
	}
}

func (w *walker) walkOne(n *cst.Node, scope string) {
	switch n.Kind {
	case cst.KPackage:
		w.walkPackage(n, scope)
	case cst.KImport:
		w.walkImport(n, scope)
	case cst.KAlias:
		w.walkAlias(n, scope)
	case cst.KOrphanComment:
		w.walkComment(n, scope)
	case cst.KDefinition, cst.KUsage:
		w.walkConstruct(n, scope)
	}
}

func (w *walker) walkPackage(n *cst.Node, scope string) {
	name := n.Name
	if name == "" {
		name = w.syntheticName(scope, "PKG", "", n.Span.StartLine)
	}
	qn := join(scope, name)
	sym := &Symbol{
		Name: name, QualifiedName: qn, Kind: KindPackage, File: w.fileID,
		Span: n.Span, Doc: n.Doc, IsPublic: true,
	}
	sym.ElementID = w.mintElementID(qn)
	w.symbols = append(w.symbols, sym)
	w.walkChildren(n.Children, qn)
}

func (w *walker) walkImport(n *cst.Node, scope string) {
	qn := join(scope, w.syntheticName(scope, "IMPORT", n.ImportTarget, n.Span.StartLine))
	sym := &Symbol{
		Name: n.ImportTarget, QualifiedName: qn, Kind: KindImport, File: w.fileID,
		Span: n.Span, Doc: n.Doc,
		ImportTarget: n.ImportTarget, ImportKind: n.ImportKind,
		ImportAlias: n.ImportAlias, ImportPublic: n.ImportPublic,
		IsPublic: n.ImportPublic,
	}
	sym.ElementID = w.mintElementID(qn)
	w.symbols = append(w.symbols, sym)
}

func (w *walker) walkAlias(n *cst.Node, scope string) {
	name := n.Name
	if name == "" {
		name = w.syntheticName(scope, "ALIAS", n.AliasTarget, n.Span.StartLine)
	}
	qn := join(scope, name)
	sym := &Symbol{
		Name: name, QualifiedName: qn, Kind: KindAlias, File: w.fileID,
		Span: n.Span, Doc: n.Doc, AliasTarget: n.AliasTarget, IsPublic: true,
	}
	sym.ElementID = w.mintElementID(qn)
	w.symbols = append(w.symbols, sym)
}

func (w *walker) walkComment(n *cst.Node, scope string) {
	qn := join(scope, w.syntheticName(scope, "COMMENT", "", n.Span.StartLine))
	sym := &Symbol{
		Name: "", QualifiedName: qn, Kind: KindComment, File: w.fileID,
		Span: n.Span, Doc: n.Doc,
	}
	sym.ElementID = w.mintElementID(qn)
	w.symbols = append(w.symbols, sym)
}

func (w *walker) walkConstruct(n *cst.Node, scope string) {
	kindMap := usageKindByKeyword
	if n.Kind == cst.KDefinition {
		kindMap = defKindByKeyword
	}
	kind, ok := kindMap[n.Keyword]
	if !ok {
		kind = KindOther
	}

	name := n.Name
	if name == "" && n.HasShortName {
		name = n.ShortName
	}
	if name == "" {
		op := "OP"
		target := ""
		if len(n.TypeRefs) > 0 {
			target = n.TypeRefs[0].Target()
			switch n.TypeRefs[0].Kind {
			case cst.RefSpecializes:
				op = "SPEC"
			case cst.RefSubsets:
				op = "SUBSETS"
			case cst.RefRedefines:
				op = "REDEF"
			case cst.RefTyping:
				op = "TYPE"
			}
		}
		name = w.syntheticName(scope, op, target, n.Span.StartLine)
	}
	qn := join(scope, name)

	sym := &Symbol{
		Name:          name,
		ShortName:     n.ShortName,
		HasShortName:  n.HasShortName,
		ShortNameSpan: n.ShortNameSpan,
		QualifiedName: qn,
		Kind:          kind,
		File:          w.fileID,
		Span:          n.Span,
		Doc:           n.Doc,
		IsPublic:      n.IsPublic(),
		Direction:     n.Direction,
		Value:         n.Value,

		IsAbstract:   n.Modifiers["abstract"],
		IsVariation:  n.Modifiers["variation"],
		IsReadonly:   n.Modifiers["readonly"],
		IsDerived:    n.Modifiers["derived"],
		IsIndividual: n.Modifiers["individual"],
		IsOrdered:    n.Modifiers["ordered"],
		IsNonunique:  n.Modifiers["nonunique"],
		IsPortion:    n.Modifiers["portion"],
		IsEnd:        n.Modifiers["end"],
		IsDefault:    n.Modifiers["default"],

		MetadataAnnotations: append([]string(nil), n.Metadata...),
		Exposes:             append([]cst.ExposeClause(nil), n.Exposes...),
		Filters:             append([]string(nil), n.Filters...),
	}
	sym.ElementID = w.mintElementID(qn)

	for _, ref := range n.TypeRefs {
		tr := TypeRef{Kind: ref.Kind, Span: ref.Span}
		for _, part := range ref.Parts {
			tr.Parts = append(tr.Parts, ChainPart{Target: part.Text, Span: part.Span})
		}
		sym.TypeRefs = append(sym.TypeRefs, tr)

		// Specialization/subsetting/redefinition always contribute to
		// supertypes; typing contributes only for usages.
		switch ref.Kind {
		case cst.RefSpecializes, cst.RefSubsets, cst.RefRedefines:
			sym.Supertypes = append(sym.Supertypes, ref.Target())
		case cst.RefTyping:
			if kind.IsUsage() {
				sym.Supertypes = append(sym.Supertypes, ref.Target())
			}
		}
	}

	for _, rel := range n.Relationships {
		sym.Relationships = append(sym.Relationships, Relationship{Kind: rel.Kind, Target: rel.To, Span: rel.Span})
	}
	for _, exp := range n.Exposes {
		sym.Relationships = append(sym.Relationships, Relationship{Kind: "expose", Target: exp.Target, Span: exp.Span})
	}

	w.symbols = append(w.symbols, sym)
	w.walkChildren(n.Children, qn)
}
