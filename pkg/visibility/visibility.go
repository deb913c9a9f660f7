// Package visibility computes per-scope import/export tables: which names
// a scope introduces directly, which it brings in via import, and which of
// those it re-exports to scopes that import it in turn.
//
// Building every scope's table is a fixpoint: a scope's imports can depend
// on the still-growing exports of whatever it wildcard-imports, so the
// whole set is iterated until nothing changes.
package visibility

import (
	"log/slog"
	"strings"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/index"
)

// Engine builds and caches VisibilityMaps against an *index.Index.
type Engine struct {
	idx    *index.Index
	logger *slog.Logger
}

// New constructs an Engine over idx. A nil logger defaults to
// slog.Default().
func New(idx *index.Index, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{idx: idx, logger: logger}
}

type membershipImport struct {
	name   string
	qn     string
	public bool
}

type wildcardImport struct {
	target    string
	recursive bool
	public    bool
}

type scopeData struct {
	direct     map[string]string
	directPub  map[string]string
	membership []membershipImport
	wildcard   []wildcardImport
}

func newScopeData() *scopeData {
	return &scopeData{direct: map[string]string{}, directPub: map[string]string{}}
}

// EnsureAll builds the visibility map for every scope in the index,
// idempotently: if the cache is already marked ready, this is a no-op.
func (e *Engine) EnsureAll() {
	if e.idx.VisibilityReady() {
		return
	}

	scopes := e.scopeSet()
	data := e.buildScopeData()

	maps := make(map[string]*index.VisibilityMap, len(scopes))
	for _, scope := range scopes {
		vm := index.NewVisibilityMap()
		if d, ok := data[scope]; ok {
			for k, v := range d.direct {
				vm.DirectDefs[k] = v
			}
		}
		maps[scope] = vm
	}

	// Fixpoint: Imported/Exports for a scope depend on the (possibly still
	// growing) Exports of every scope it wildcard-imports, so iterate until
	// no scope's maps change. Always terminates: the qualified-name universe
	// is finite, and every map only ever grows.
	for {
		changed := false
		for _, scope := range scopes {
			d, ok := data[scope]
			if !ok {
				continue
			}
			vm := maps[scope]

			newImported := map[string]string{}
			newExports := map[string]string{}
			for k, v := range d.directPub {
				newExports[k] = v
			}
			for _, m := range d.membership {
				newImported[m.name] = m.qn
				if m.public {
					newExports[m.name] = m.qn
				}
			}
			for _, w := range d.wildcard {
				for k, v := range resolveWildcardSource(w.target, w.recursive, maps) {
					newImported[k] = v
					if w.public {
						newExports[k] = v
					}
				}
			}

			if !mapEqual(vm.Imported, newImported) || !mapEqual(vm.Exports, newExports) {
				changed = true
			}
			vm.Imported = newImported
			vm.Exports = newExports
		}
		if !changed {
			break
		}
	}

	for scope, vm := range maps {
		e.idx.SetVisibility(scope, vm)
	}
	e.idx.MarkVisibilityReady()
	e.logger.Debug("visibility: built maps", "scopes", len(scopes))
}

// resolveWildcardSource returns the name->qn table a `import target::*`
// (or `::**`) brings in, read from target's (and, if recursive, every
// descendant scope's) current Exports.
func resolveWildcardSource(target string, recursive bool, maps map[string]*index.VisibilityMap) map[string]string {
	out := map[string]string{}
	if vm, ok := maps[target]; ok {
		for k, v := range vm.Exports {
			out[k] = v
		}
	}
	if recursive {
		prefix := target + "::"
		for scope, vm := range maps {
			if scope != target && strings.HasPrefix(scope, prefix) {
				for k, v := range vm.Exports {
					out[k] = v
				}
			}
		}
	}
	return out
}

func mapEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// ForScope returns the cached VisibilityMap for scope, building all maps
// first if the cache is stale.
func (e *Engine) ForScope(scope string) *index.VisibilityMap {
	e.EnsureAll()
	if vm, ok := e.idx.GetVisibility(scope); ok {
		return vm
	}
	return index.NewVisibilityMap()
}

// scopeSet collects every distinct scope qualified name that owns at least
// one symbol: the workspace root (""), plus the qualified name of every
// definition/usage/package, since each such symbol is itself a scope for
// its own children.
func (e *Engine) scopeSet() []string {
	seen := map[string]bool{"": true}
	scopes := []string{""}
	for _, sym := range e.idx.AllSymbols() {
		switch sym.Kind {
		case extractor.KindImport, extractor.KindAlias, extractor.KindComment:
			continue
		}
		if !seen[sym.QualifiedName] {
			seen[sym.QualifiedName] = true
			scopes = append(scopes, sym.QualifiedName)
		}
	}
	return scopes
}

// buildScopeData groups every symbol by its owning scope and classifies
// imports by form, a single static pass with no cross-scope dependency
// (the fixpoint in EnsureAll handles those).
func (e *Engine) buildScopeData() map[string]*scopeData {
	out := map[string]*scopeData{}
	ensure := func(scope string) *scopeData {
		d, ok := out[scope]
		if !ok {
			d = newScopeData()
			out[scope] = d
		}
		return d
	}

	for _, sym := range e.idx.AllSymbols() {
		scope := parentScope(sym.QualifiedName)
		d := ensure(scope)

		switch sym.Kind {
		case extractor.KindComment:
			continue
		case extractor.KindAlias:
			d.direct[sym.Name] = sym.AliasTarget
		case extractor.KindImport:
			e.classifyImport(d, sym)
		default:
			if sym.Name != "" {
				d.direct[sym.Name] = sym.QualifiedName
				if sym.IsPublic {
					d.directPub[sym.Name] = sym.QualifiedName
				}
			}
			if sym.HasShortName && sym.ShortName != "" {
				d.direct[sym.ShortName] = sym.QualifiedName
				if sym.IsPublic {
					d.directPub[sym.ShortName] = sym.QualifiedName
				}
			}
		}
	}
	return out
}

func (e *Engine) classifyImport(d *scopeData, imp *extractor.Symbol) {
	switch imp.ImportKind {
	case cst.WildcardNone:
		sym, ok := e.idx.LookupQualified(imp.ImportTarget)
		if !ok {
			return
		}
		name := imp.ImportAlias
		if name == "" {
			name = lastSegment(imp.ImportTarget)
		} else {
			// `import P::X as Y;` binds Y directly in this scope too.
			d.direct[name] = sym.QualifiedName
		}
		d.membership = append(d.membership, membershipImport{name: name, qn: sym.QualifiedName, public: imp.ImportPublic})
	case cst.WildcardDirect:
		d.wildcard = append(d.wildcard, wildcardImport{target: imp.ImportTarget, recursive: false, public: imp.ImportPublic})
	case cst.WildcardRecursive:
		d.wildcard = append(d.wildcard, wildcardImport{target: imp.ImportTarget, recursive: true, public: imp.ImportPublic})
	}
}

func parentScope(qn string) string {
	i := strings.LastIndex(qn, "::")
	if i < 0 {
		return ""
	}
	return qn[:i]
}

func lastSegment(qn string) string {
	i := strings.LastIndex(qn, "::")
	if i < 0 {
		return qn
	}
	return qn[i+2:]
}
