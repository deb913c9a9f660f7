// Package diagnostics produces semantic diagnostics over a resolved index:
// unresolved/ambiguous references, duplicate names, unused imports and
// aliases, and cross-import shadowing.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/resolver"
	"github.com/kermlsem/kermlsem/pkg/visibility"
)

// Severity is a typed string enum, to keep callers exhaustive-switch-safe.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
)

// Code names a diagnostic category.
type Code string

const (
	CodeUnresolvedReference   Code = "unresolved-reference"
	CodeAmbiguousReference    Code = "ambiguous-reference"
	CodeDuplicateName         Code = "duplicate-name"
	CodeUnusedImport          Code = "unused-import"
	CodeUnusedAlias           Code = "unused-alias"
	CodeShadowingAcrossImport Code = "shadowing-across-imports"
)

// Diagnostic is one reported issue, anchored to a span.
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Span       cst.Span
	Candidates []string // populated for CodeAmbiguousReference
}

// CheckFile runs every semantic check against fileID's symbols.
// ResolveAllTypeRefs must already have been run on idx for unresolved/
// ambiguous-reference checks to be meaningful; this function does not
// mutate the index.
func CheckFile(idx *index.Index, fileID extractor.FileID) []Diagnostic {
	vis := visibility.New(idx, nil)
	res := resolver.New(idx, vis)

	var diags []Diagnostic
	syms := idx.SymbolsInFile(fileID)

	diags = append(diags, checkReferences(res, syms)...)
	diags = append(diags, checkDuplicateNames(syms)...)
	diags = append(diags, checkUnusedImportsAndAliases(idx, syms)...)
	diags = append(diags, checkShadowing(vis, syms)...)
	return diags
}

func checkReferences(res *resolver.Resolver, syms []*extractor.Symbol) []Diagnostic {
	var diags []Diagnostic
	for _, sym := range syms {
		for _, ref := range sym.TypeRefs {
			part := ref.Parts[len(ref.Parts)-1]
			if part.ResolvedTarget != "" {
				continue
			}
			// Re-run the query to distinguish Ambiguous from NotFound —
			// ResolveAllTypeRefs only records Found results.
			result := resolveForDiagnostic(res, ref, sym)
			switch result.Outcome {
			case resolver.Ambiguous:
				cands := make([]string, len(result.Candidates))
				for i, c := range result.Candidates {
					cands[i] = c.QualifiedName
				}
				diags = append(diags, Diagnostic{
					Severity: SeverityError, Code: CodeAmbiguousReference,
					Message:    fmt.Sprintf("%q is ambiguous: %d candidates", part.Target, len(cands)),
					Span:       ref.Span,
					Candidates: cands,
				})
			case resolver.NotFound:
				diags = append(diags, Diagnostic{
					Severity: SeverityError, Code: CodeUnresolvedReference,
					Message: fmt.Sprintf("unresolved reference %q", part.Target),
					Span:    ref.Span,
				})
			}
		}
	}
	return diags
}

func resolveForDiagnostic(res *resolver.Resolver, ref extractor.TypeRef, sym *extractor.Symbol) resolver.Result {
	scope := parentScope(sym.QualifiedName)
	if ref.IsChain() {
		parts := make([]string, len(ref.Parts))
		for i, p := range ref.Parts {
			parts[i] = p.Target
		}
		return res.ResolveFeatureChain(parts, scope)
	}
	if ref.Kind == cst.RefTyping || ref.Kind == cst.RefSpecializes || ref.Kind == cst.RefSubsets || ref.Kind == cst.RefRedefines {
		return res.ResolveType(ref.Target(), scope)
	}
	return res.Resolve(ref.Target(), scope)
}

// checkDuplicateNames flags two sibling symbols in the same scope sharing a
// simple name (alias symbols are skipped, since an alias legitimately
// rebinds a name).
func checkDuplicateNames(syms []*extractor.Symbol) []Diagnostic {
	var diags []Diagnostic
	seenByScope := map[string]map[string]*extractor.Symbol{}
	for _, sym := range syms {
		if sym.Name == "" || sym.Kind == extractor.KindComment || sym.Kind == extractor.KindImport || sym.Kind == extractor.KindAlias {
			continue
		}
		scope := parentScope(sym.QualifiedName)
		seen, ok := seenByScope[scope]
		if !ok {
			seen = map[string]*extractor.Symbol{}
			seenByScope[scope] = seen
		}
		if prior, exists := seen[sym.Name]; exists {
			diags = append(diags, Diagnostic{
				Severity: SeverityError, Code: CodeDuplicateName,
				Message: fmt.Sprintf("%q is already defined at line %d", sym.Name, prior.Span.StartLine),
				Span:    sym.Span,
			})
		} else {
			seen[sym.Name] = sym
		}
	}
	return diags
}

// checkUnusedImportsAndAliases flags imports/aliases in syms that no TypeRef
// in the index uses. An import counts as used when some TypeRef part names
// its target, or a member nested under it, either as written or as
// resolved; an alias counts as used when some TypeRef is written with the
// alias's qualified or simple name.
func checkUnusedImportsAndAliases(idx *index.Index, syms []*extractor.Symbol) []Diagnostic {
	var diags []Diagnostic
	for _, sym := range syms {
		switch sym.Kind {
		case extractor.KindImport:
			if sym.ImportTarget == "" {
				continue
			}
			if len(idx.ReverseReferences(sym.ImportTarget)) == 0 && !hasDescendantReferences(idx, sym.ImportTarget) {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning, Code: CodeUnusedImport,
					Message: fmt.Sprintf("import %q is never referenced", sym.ImportTarget),
					Span:    sym.Span,
				})
			}
		case extractor.KindAlias:
			if len(idx.ReverseReferences(sym.QualifiedName)) == 0 && len(idx.ReverseReferences(sym.Name)) == 0 {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning, Code: CodeUnusedAlias,
					Message: fmt.Sprintf("alias %q is never referenced", sym.Name),
					Span:    sym.Span,
				})
			}
		}
	}
	return diags
}

func hasDescendantReferences(idx *index.Index, target string) bool {
	prefix := target + "::"
	for _, sym := range idx.AllSymbols() {
		if strings.HasPrefix(sym.QualifiedName, prefix) && len(idx.ReverseReferences(sym.QualifiedName)) > 0 {
			return true
		}
		for _, ref := range sym.TypeRefs {
			for _, part := range ref.Parts {
				if part.ResolvedTarget == target || strings.HasPrefix(part.ResolvedTarget, prefix) {
					return true
				}
			}
		}
	}
	return false
}

// checkShadowing flags a scope's direct_defs entry that shadows a name
// available via import in the same scope — legal, but worth a hint so the
// author notices.
func checkShadowing(vis *visibility.Engine, syms []*extractor.Symbol) []Diagnostic {
	var diags []Diagnostic
	scopes := map[string]bool{}
	for _, sym := range syms {
		scopes[parentScope(sym.QualifiedName)] = true
	}
	for scope := range scopes {
		vm := vis.ForScope(scope)
		for name := range vm.DirectDefs {
			if importedQN, ok := vm.Imported[name]; ok {
				diags = append(diags, Diagnostic{
					Severity: SeverityHint, Code: CodeShadowingAcrossImport,
					Message: fmt.Sprintf("%q shadows the import of %q in this scope", name, importedQN),
				})
			}
		}
	}
	return diags
}

func parentScope(qn string) string {
	i := strings.LastIndex(qn, "::")
	if i < 0 {
		return ""
	}
	return qn[:i]
}
