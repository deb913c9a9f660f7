package cst

// NodeKind distinguishes the handful of construct shapes the surface
// grammar commits to.
type NodeKind uint8

const (
	KFile NodeKind = iota
	KPackage
	KDefinition
	KUsage
	KImport
	KAlias
	KOrphanComment
)

func (k NodeKind) String() string {
	switch k {
	case KFile:
		return "File"
	case KPackage:
		return "Package"
	case KDefinition:
		return "Definition"
	case KUsage:
		return "Usage"
	case KImport:
		return "Import"
	case KAlias:
		return "Alias"
	case KOrphanComment:
		return "OrphanComment"
	default:
		return "Unknown"
	}
}

// RefKind tags the grammatical role that introduced a TypeRef.
type RefKind uint8

const (
	RefTyping RefKind = iota
	RefSpecializes
	RefSubsets
	RefRedefines
	RefReferences
	RefExpression
	RefMeta
	RefConjugates
	RefDiffers
	RefIntersects
	RefUnions
)

func (k RefKind) String() string {
	switch k {
	case RefTyping:
		return "Typing"
	case RefSpecializes:
		return "Specializes"
	case RefSubsets:
		return "Subsets"
	case RefRedefines:
		return "Redefines"
	case RefReferences:
		return "References"
	case RefExpression:
		return "Expression"
	case RefMeta:
		return "Meta"
	case RefConjugates:
		return "Conjugates"
	case RefDiffers:
		return "Differs"
	case RefIntersects:
		return "Intersects"
	case RefUnions:
		return "Unions"
	default:
		return "Unknown"
	}
}

// ChainPart is one segment of a dotted feature-chain reference.
type ChainPart struct {
	Text string
	Span Span
}

// TypeRef is the CST-level representation of a type reference: a Simple
// TypeRef has exactly one Part; a Chain has two or more.
type TypeRef struct {
	Kind  RefKind
	Parts []ChainPart
	Span  Span
}

// IsChain reports whether this ref is a dotted multi-part chain.
func (t *TypeRef) IsChain() bool { return len(t.Parts) >= 2 }

// Target is the first (or only) part's text, the conventional "name as
// written" for a Simple ref.
func (t *TypeRef) Target() string {
	if len(t.Parts) == 0 {
		return ""
	}
	return t.Parts[0].Text
}

// Relationship is a non-TypeRef relation such as `dependency from X to Y`.
type Relationship struct {
	Kind string
	From string
	To   string
	Span Span
}

// WildcardKind classifies an import or expose wildcard form.
type WildcardKind uint8

const (
	WildcardNone WildcardKind = iota
	WildcardDirect
	WildcardRecursive
)

// ExposeClause is one `expose` relation inside a view body.
type ExposeClause struct {
	Target string
	Kind   WildcardKind
	Span   Span
}

// Node is one construct in the lossless CST. The grammar is intentionally
// flat: every nameable construct (definitions, usages, packages, imports,
// aliases) is one Node with typed fields rather than a generic attribute
// bag, since the extractor needs exactly these fields and nothing else.
type Node struct {
	Kind NodeKind
	Span Span

	// Keyword is the base construct keyword: "part", "attribute", "action",
	// "state", "constraint", "requirement", "enum", "item", "view",
	// "viewpoint", "package" for a Package, or "" for Import/Alias/
	// OrphanComment.
	Keyword string
	IsDef   bool // true when the "def" suffix was present (a Definition)

	Name          string
	NameSpan      Span
	ShortName     string
	ShortNameSpan Span
	HasShortName  bool

	Modifiers map[string]bool
	Direction string // "in" | "out" | "inout" | ""

	Doc string

	TypeRefs      []*TypeRef
	Relationships []*Relationship
	Metadata      []string // "#Name" annotations

	// View-only fields (Keyword == "view" or "viewpoint").
	Exposes []ExposeClause
	Filters []string

	// Import-only fields.
	ImportTarget  string // qualified path written, without trailing wildcard
	ImportKind    WildcardKind
	ImportAlias   string
	ImportPublic  bool

	// Alias-only fields.
	AliasTarget string

	// Value holds the raw, re-joined token text of a `= <expr>` value
	// assignment, if any.
	Value string

	Children []*Node
}

func (n *Node) modifier(name string) bool {
	if n.Modifiers == nil {
		return false
	}
	return n.Modifiers[name]
}

// IsPublic reports whether this member is marked public (or public by
// default, i.e. not explicitly private).
func (n *Node) IsPublic() bool {
	if n.modifier("private") {
		return false
	}
	return true
}

// Tree is the parse result: a File-kind root Node plus accumulated parse
// errors. Node spans point back into the input bytes. Of the comments, only
// doc comments survive, as the Doc of the member that follows them (the
// last one wins when several precede a member); plain comments and
// whitespace are dropped, and the parser creates no OrphanComment nodes.
type Tree struct {
	Root   *Node
	Errors []ParseError
}

// ParseError is a byte/line-col span plus a human message. Parse errors
// never halt extraction.
type ParseError struct {
	Span    Span
	Message string
}
