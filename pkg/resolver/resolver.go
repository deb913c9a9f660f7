// Package resolver answers name/type/qualified/feature-chain queries over a
// populated index, following inherited members through specialization and
// subsetting. The resolver owns no state of its own, just a read-only view
// of the index.
package resolver

import (
	"sort"
	"strings"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/visibility"
)

// Outcome is the tri-state result of every resolver query.
type Outcome int

const (
	NotFound Outcome = iota
	Found
	Ambiguous
)

// Result carries the outcome and, for Found, the single symbol, or for
// Ambiguous, every candidate (document order).
type Result struct {
	Outcome    Outcome
	Symbol     *extractor.Symbol
	Candidates []*extractor.Symbol
}

func found(s *extractor.Symbol) Result           { return Result{Outcome: Found, Symbol: s} }
func ambiguous(cands []*extractor.Symbol) Result { return Result{Outcome: Ambiguous, Candidates: cands} }
func notFound() Result                           { return Result{Outcome: NotFound} }

// Resolver answers queries against idx, using vis for scope visibility.
type Resolver struct {
	idx *index.Index
	vis *visibility.Engine
}

// New constructs a Resolver. If vis is nil, one is built over idx.
func New(idx *index.Index, vis *visibility.Engine) *Resolver {
	if vis == nil {
		vis = visibility.New(idx, nil)
	}
	return &Resolver{idx: idx, vis: vis}
}

// ResolveQualified is an absolute lookup, with alias transparency. An exact
// index hit wins outright; otherwise the name is walked segment by segment
// (resolve the first segment in root scope, then find each subsequent
// segment as a member of the previous one), so that a member re-exported
// under a different qualified name via a wildcard import is still reachable
// by the importing scope's own qualified name.
func (r *Resolver) ResolveQualified(qn string) Result {
	if sym, ok := r.idx.LookupQualified(qn); ok {
		return found(r.throughAlias(sym))
	}
	return r.resolveSegmented(qn)
}

// resolveSegmented implements the per-segment qualified walk: the first
// segment resolves as an ordinary name in root scope, and each following
// segment resolves as a member of the qualified name found so far.
func (r *Resolver) resolveSegmented(qn string) Result {
	segments := strings.Split(qn, "::")
	if len(segments) < 2 {
		return notFound()
	}

	head := r.resolveInScope(segments[0], "", false)
	if head.Outcome != Found {
		return head
	}

	current := head.Symbol
	for _, seg := range segments[1:] {
		next := r.FindMemberInScope(current.QualifiedName, seg)
		if next.Outcome != Found {
			return next
		}
		current = next.Symbol
	}
	return found(current)
}

// Resolve is the general, unrestricted query: a name in lexical scope.
func (r *Resolver) Resolve(name string, scope string) Result {
	if strings.Contains(name, "::") {
		if res := r.resolveQualifiedOrSuffix(name); res.Outcome != NotFound {
			return res
		}
	}
	return r.resolveInScope(name, scope, false)
}

// ResolveType is Resolve restricted to definition-kind symbols, used by
// typing/specialization operators.
func (r *Resolver) ResolveType(name string, scope string) Result {
	return r.resolveInScope(name, scope, true)
}

func (r *Resolver) resolveQualifiedOrSuffix(name string) Result {
	if res := r.ResolveQualified(name); res.Outcome != NotFound {
		return res
	}
	var matches []*extractor.Symbol
	suffix := "::" + name
	for _, sym := range r.idx.AllSymbols() {
		if strings.HasSuffix(sym.QualifiedName, suffix) || sym.QualifiedName == name {
			matches = append(matches, sym)
		}
	}
	return collapse(matches)
}

// resolveInScope walks outward from scope, checking direct/imported names
// and inherited members at each enclosing scope, for a single (unqualified)
// name segment.
func (r *Resolver) resolveInScope(name string, scope string, typesOnly bool) Result {
	for {
		if res := r.lookupDirectAndImported(name, scope, typesOnly); res.Outcome != NotFound {
			return res
		}
		if res := r.lookupInherited(name, scope, typesOnly); res.Outcome != NotFound {
			return res
		}
		if scope == "" {
			break
		}
		scope = parentScope(scope)
	}
	return notFound()
}

func (r *Resolver) lookupDirectAndImported(name, scope string, typesOnly bool) Result {
	vm := r.vis.ForScope(scope)
	if qn, ok := vm.DirectDefs[name]; ok {
		if sym, ok := r.idx.LookupQualified(qn); ok && (!typesOnly || sym.Kind.IsDefinition()) {
			return found(r.throughAlias(sym))
		}
	}
	if qn, ok := vm.Imported[name]; ok {
		if sym, ok := r.idx.LookupQualified(qn); ok && (!typesOnly || sym.Kind.IsDefinition()) {
			return found(r.throughAlias(sym))
		}
	}
	return notFound()
}

// lookupInherited searches the supertypes of the innermost enclosing
// definition/usage for name: specialization-derived supertypes first, then
// subsetting-derived ones.
func (r *Resolver) lookupInherited(name, scope string, typesOnly bool) Result {
	owner, ok := r.idx.LookupQualified(scope)
	if !ok || len(owner.Supertypes) == 0 {
		return notFound()
	}
	declScope := parentScope(owner.QualifiedName)

	var viaSpecialization, viaSubsetting []string
	for _, ref := range owner.TypeRefs {
		target := ref.Target()
		if target == "" {
			continue
		}
		switch ref.Kind {
		case cst.RefSpecializes:
			viaSpecialization = append(viaSpecialization, target)
		case cst.RefSubsets:
			viaSubsetting = append(viaSubsetting, target)
		}
	}

	// Specialization-derived supertypes are searched before subsetting-derived ones.
	for _, raw := range append(append([]string{}, viaSpecialization...), viaSubsetting...) {
		superSym := r.Resolve(raw, declScope)
		if superSym.Outcome != Found {
			continue
		}
		if res := r.FindMemberInScope(superSym.Symbol.QualifiedName, name); res.Outcome != NotFound {
			if !typesOnly || res.Outcome != Found || res.Symbol.Kind.IsDefinition() {
				return res
			}
		}
	}
	return notFound()
}

// FindMemberInScope searches scopeQN's direct members, then its supertypes'
// members (specialization before subsetting). Private imports of scopeQN
// are consulted here too (this looks at the full VisibilityMap, not just
// its exports), since a member reached through scopeQN itself is reached
// from inside, not from an importing scope.
func (r *Resolver) FindMemberInScope(scopeQN, name string) Result {
	vm := r.vis.ForScope(scopeQN)
	if qn, ok := vm.DirectDefs[name]; ok {
		if sym, ok := r.idx.LookupQualified(qn); ok {
			return found(r.throughAlias(sym))
		}
	}
	if qn, ok := vm.Imported[name]; ok {
		if sym, ok := r.idx.LookupQualified(qn); ok {
			return found(r.throughAlias(sym))
		}
	}
	return r.lookupInherited(name, scopeQN, false)
}

// ResolveFeatureChain resolves a.b.c: the first part generally, then each
// subsequent part as a member of the type of the preceding part.
func (r *Resolver) ResolveFeatureChain(parts []string, scope string) Result {
	if len(parts) == 0 {
		return notFound()
	}
	head := r.Resolve(parts[0], scope)
	if head.Outcome != Found {
		return head
	}
	current := head.Symbol
	for _, part := range parts[1:] {
		typeQN := r.typeOf(current)
		if typeQN == "" {
			return notFound()
		}
		next := r.FindMemberInScope(typeQN, part)
		if next.Outcome != Found {
			return next
		}
		current = next.Symbol
	}
	return found(current)
}

// typeOf is "the type of" a symbol for chain resolution purposes: for a
// usage, its first supertype (via typing or subsetting); for a definition,
// the definition's own qualified name. The supertype is written in sym's
// declaring scope, so it is resolved there rather than trusted as already
// qualified.
func (r *Resolver) typeOf(sym *extractor.Symbol) string {
	if sym.Kind.IsDefinition() {
		return sym.QualifiedName
	}
	if len(sym.Supertypes) == 0 {
		return ""
	}
	res := r.Resolve(sym.Supertypes[0], parentScope(sym.QualifiedName))
	if res.Outcome != Found {
		return ""
	}
	return res.Symbol.QualifiedName
}

// ResolveAllTypeRefs fills ResolvedTarget for every TypeRef part across the
// whole index, using each symbol's own qualified name as its TypeRef
// occurrences' lexical scope. Idempotent and safe to call repeatedly after
// any edit.
func (r *Resolver) ResolveAllTypeRefs() {
	for _, sym := range r.idx.AllSymbols() {
		declScope := parentScope(sym.QualifiedName)
		for i := range sym.TypeRefs {
			ref := &sym.TypeRefs[i]
			if ref.IsChain() {
				parts := make([]string, len(ref.Parts))
				for j, p := range ref.Parts {
					parts[j] = p.Target
				}
				result := r.ResolveFeatureChain(parts, declScope)
				if result.Outcome == Found {
					ref.Parts[len(ref.Parts)-1].ResolvedTarget = result.Symbol.QualifiedName
				}
				continue
			}
			var result Result
			if ref.Kind == cst.RefTyping || ref.Kind == cst.RefSpecializes || ref.Kind == cst.RefSubsets || ref.Kind == cst.RefRedefines {
				result = r.ResolveType(ref.Target(), declScope)
			} else {
				result = r.Resolve(ref.Target(), declScope)
			}
			if result.Outcome == Found {
				ref.Parts[0].ResolvedTarget = result.Symbol.QualifiedName
			}
		}
	}
}

// throughAlias dereferences an Alias symbol to its target, recursively
// (bounded, since qualified names form a finite DAG in well-formed input).
func (r *Resolver) throughAlias(sym *extractor.Symbol) *extractor.Symbol {
	seen := map[string]bool{}
	for sym.Kind == extractor.KindAlias && !seen[sym.QualifiedName] {
		seen[sym.QualifiedName] = true
		target, ok := r.idx.LookupQualified(sym.AliasTarget)
		if !ok {
			break
		}
		sym = target
	}
	return sym
}

func parentScope(qn string) string {
	i := strings.LastIndex(qn, "::")
	if i < 0 {
		return ""
	}
	return qn[:i]
}

// collapse turns a candidate slice into NotFound/Found/Ambiguous, breaking
// ties by document order.
func collapse(matches []*extractor.Symbol) Result {
	switch len(matches) {
	case 0:
		return notFound()
	case 1:
		return found(matches[0])
	default:
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].File != matches[j].File {
				return matches[i].File < matches[j].File
			}
			return matches[i].Span.StartByte < matches[j].Span.StartByte
		})
		return ambiguous(matches)
	}
}
