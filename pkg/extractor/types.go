// Package extractor walks a lossless CST and emits the flat per-file symbol
// list the rest of the pipeline is built on.
package extractor

import "github.com/kermlsem/kermlsem/pkg/cst"

// FileID is an opaque, dense, comparable integer identifying a source file
// within one workspace session.
type FileID int

// Kind is the closed enum distinguishing definitions, usages, and the
// auxiliary kinds.
type Kind int

const (
	KindOther Kind = iota
	KindPackage
	KindImport
	KindAlias
	KindComment

	KindPartDef
	KindAttributeDef
	KindActionDef
	KindStateDef
	KindConstraintDef
	KindRequirementDef
	KindEnumDef
	KindItemDef
	KindViewDef
	KindViewpointDef

	KindPartUsage
	KindAttributeUsage
	KindActionUsage
	KindStateUsage
	KindConstraintUsage
	KindRequirementUsage
	KindEnumUsage
	KindItemUsage
	KindViewUsage
	KindViewpointUsage
)

var kindNames = map[Kind]string{
	KindOther: "Other", KindPackage: "Package", KindImport: "Import",
	KindAlias: "Alias", KindComment: "Comment",
	KindPartDef: "PartDef", KindAttributeDef: "AttributeDef", KindActionDef: "ActionDef",
	KindStateDef: "StateDef", KindConstraintDef: "ConstraintDef", KindRequirementDef: "RequirementDef",
	KindEnumDef: "EnumDef", KindItemDef: "ItemDef", KindViewDef: "ViewDef", KindViewpointDef: "ViewpointDef",
	KindPartUsage: "PartUsage", KindAttributeUsage: "AttributeUsage", KindActionUsage: "ActionUsage",
	KindStateUsage: "StateUsage", KindConstraintUsage: "ConstraintUsage", KindRequirementUsage: "RequirementUsage",
	KindEnumUsage: "EnumUsage", KindItemUsage: "ItemUsage", KindViewUsage: "ViewUsage", KindViewpointUsage: "ViewpointUsage",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Other"
}

var kindByName map[string]Kind

func init() {
	kindByName = make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		kindByName[name] = k
	}
}

// KindFromString is the inverse of Kind.String, used by interchange
// deserialization to recover a Kind from its serialized name. An unknown
// name maps to KindOther rather than erroring, matching this package's
// general policy of degrading gracefully on malformed input.
func KindFromString(name string) Kind {
	if k, ok := kindByName[name]; ok {
		return k
	}
	return KindOther
}

// IsDefinition reports whether k is one of the *Def kinds (plus Package,
// which behaves as a namespace-defining scope).
func (k Kind) IsDefinition() bool {
	switch k {
	case KindPartDef, KindAttributeDef, KindActionDef, KindStateDef, KindConstraintDef,
		KindRequirementDef, KindEnumDef, KindItemDef, KindViewDef, KindViewpointDef, KindPackage:
		return true
	}
	return false
}

// IsUsage reports whether k is one of the *Usage kinds.
func (k Kind) IsUsage() bool {
	switch k {
	case KindPartUsage, KindAttributeUsage, KindActionUsage, KindStateUsage, KindConstraintUsage,
		KindRequirementUsage, KindEnumUsage, KindItemUsage, KindViewUsage, KindViewpointUsage:
		return true
	}
	return false
}

var defKindByKeyword = map[string]Kind{
	"part": KindPartDef, "attribute": KindAttributeDef, "action": KindActionDef,
	"state": KindStateDef, "constraint": KindConstraintDef, "requirement": KindRequirementDef,
	"enum": KindEnumDef, "item": KindItemDef, "view": KindViewDef, "viewpoint": KindViewpointDef,
}

var usageKindByKeyword = map[string]Kind{
	"part": KindPartUsage, "attribute": KindAttributeUsage, "action": KindActionUsage,
	"state": KindStateUsage, "constraint": KindConstraintUsage, "requirement": KindRequirementUsage,
	"enum": KindEnumUsage, "item": KindItemUsage, "view": KindViewUsage, "viewpoint": KindViewpointUsage,
}

// ChainPart is one segment of a dotted feature-chain reference, with its
// resolved target filled in after batch resolution.
type ChainPart struct {
	Target         string
	ResolvedTarget string
	Span           cst.Span
}

// TypeRef is either Simple (len(Parts) == 1) or Chain (len(Parts) >= 2).
type TypeRef struct {
	Kind  cst.RefKind
	Parts []ChainPart
	Span  cst.Span
}

// IsChain reports whether this is a multi-part dotted reference.
func (t *TypeRef) IsChain() bool { return len(t.Parts) >= 2 }

// Target is the first (or only) part's written name.
func (t *TypeRef) Target() string {
	if len(t.Parts) == 0 {
		return ""
	}
	return t.Parts[0].Target
}

// ResolvedTarget is the first (or only) part's resolved target, for Simple
// refs. Chain refs should inspect individual Parts instead.
func (t *TypeRef) ResolvedTarget() string {
	if len(t.Parts) == 0 {
		return ""
	}
	return t.Parts[0].ResolvedTarget
}

// Relationship is a non-TypeRef relation, e.g. `dependency from X to
// Y` or `expose X`.
type Relationship struct {
	Kind   string
	Target string
	Span   cst.Span
}

// Symbol is the unit of the extractor's output: one per nameable construct
// (and for each import, alias, comment).
type Symbol struct {
	Name          string
	ShortName     string
	HasShortName  bool
	QualifiedName string
	ElementID     string
	Kind          Kind
	File          FileID
	Span          cst.Span
	ShortNameSpan cst.Span

	Doc string

	Supertypes    []string
	TypeRefs      []TypeRef
	Relationships []Relationship

	IsAbstract   bool
	IsVariation  bool
	IsReadonly   bool
	IsDerived    bool
	IsIndividual bool
	IsOrdered    bool
	IsNonunique  bool
	IsPortion    bool
	IsEnd        bool
	IsDefault    bool
	IsPublic     bool

	Direction    string
	Multiplicity string
	Value        string

	MetadataAnnotations []string

	// Import-only fields.
	ImportTarget string
	ImportKind   cst.WildcardKind
	ImportAlias  string
	ImportPublic bool

	// Alias-only fields.
	AliasTarget string

	// View-only fields.
	Exposes []cst.ExposeClause
	Filters []string
}
