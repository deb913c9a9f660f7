package ide

import (
	"github.com/kermlsem/kermlsem/pkg/cst"
)

// TokenType classifies a semantic token for client-side highlighting.
type TokenType int

const (
	TokenNamespace TokenType = iota // packages, imports
	TokenDef                        // definitions, classifiers, type references
	TokenProperty                   // usages, features
	TokenVariable                   // aliases
	TokenKeyword
)

// SemanticToken is one highlighted span.
type SemanticToken struct {
	Span cst.Span
	Type TokenType
}

// SemanticTokens walks tree's root and emits one token per nameable
// construct's name, plus one token per type-reference occurrence,
// classified by the construct/reference kind that introduced it:
//
//   - package names and whole import statements: Namespace
//   - definition names, specialization/redefinition targets on a
//     definition, and typing/reference targets anywhere: Def
//   - usage names, subsetting and expression references, and redefinition
//     targets on a usage: Property
//   - alias names: Variable
//
// Metadata annotations (#Name) produce no token.
func SemanticTokens(tree *cst.Tree) []SemanticToken {
	var out []SemanticToken
	collectSemanticTokens(tree.Root.Children, &out)
	return out
}

func collectSemanticTokens(nodes []*cst.Node, out *[]SemanticToken) {
	for _, n := range nodes {
		switch n.Kind {
		case cst.KPackage:
			*out = append(*out, SemanticToken{Span: n.NameSpan, Type: TokenNamespace})
			collectSemanticTokens(n.Children, out)
		case cst.KImport:
			*out = append(*out, SemanticToken{Span: n.Span, Type: TokenNamespace})
		case cst.KAlias:
			*out = append(*out, SemanticToken{Span: n.NameSpan, Type: TokenVariable})
		case cst.KDefinition:
			if n.Name != "" {
				*out = append(*out, SemanticToken{Span: n.NameSpan, Type: TokenDef})
			}
			appendTypeRefTokens(n, out)
			collectSemanticTokens(n.Children, out)
		case cst.KUsage:
			if n.Name != "" {
				*out = append(*out, SemanticToken{Span: n.NameSpan, Type: TokenProperty})
			}
			appendTypeRefTokens(n, out)
			collectSemanticTokens(n.Children, out)
		default:
			collectSemanticTokens(n.Children, out)
		}
	}
}

func appendTypeRefTokens(n *cst.Node, out *[]SemanticToken) {
	for _, ref := range n.TypeRefs {
		tt := typeRefTokenType(n.Kind, ref.Kind)
		for _, part := range ref.Parts {
			*out = append(*out, SemanticToken{Span: part.Span, Type: tt})
		}
	}
}

// typeRefTokenType classifies a TypeRef occurrence by the grammatical role
// that introduced it and the kind of construct it's written on. Subsetting
// only ever occurs on a Usage (the parser rewrites ":>" on a Usage to
// Subsets at parse time), so Specializes is always a Definition-level
// reference; Redefines can occur on either.
func typeRefTokenType(owner cst.NodeKind, ref cst.RefKind) TokenType {
	switch ref {
	case cst.RefSubsets, cst.RefExpression:
		return TokenProperty
	case cst.RefRedefines:
		if owner == cst.KUsage {
			return TokenProperty
		}
		return TokenDef
	default:
		return TokenDef
	}
}
