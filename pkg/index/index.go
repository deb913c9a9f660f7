// Package index implements the multi-file symbol index: a single mutable
// store owned by the workspace, keyed by file and by qualified name, with
// a reverse reference index and a lazily-built, wholesale-invalidated
// visibility cache.
//
// Resolution and visibility-map construction are deliberately kept in
// sibling packages (pkg/visibility, pkg/resolver) rather than as Index
// methods, to avoid an import cycle: those packages take an *Index rather
// than the other way around.
package index

import (
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kermlsem/kermlsem/pkg/extractor"
)

// ReferenceSite is one entry in the reverse index: a TypeRef (or chain
// part) in some symbol's text that names qn.
type ReferenceSite struct {
	FromQualifiedName string
	File              extractor.FileID
	Kind              int // mirrors cst.RefKind, kept as int to avoid importing cst here
}

// VisibilityMap is the per-scope table computed by pkg/visibility and
// cached here.
type VisibilityMap struct {
	DirectDefs map[string]string // simple_name -> qualified_name
	Imported   map[string]string
	Exports    map[string]string
}

func NewVisibilityMap() *VisibilityMap {
	return &VisibilityMap{
		DirectDefs: map[string]string{},
		Imported:   map[string]string{},
		Exports:    map[string]string{},
	}
}

// Config configures the index's cache behavior.
type Config struct {
	// MaxCachedFiles bounds the LRU cache of per-file symbol slices.
	MaxCachedFiles int
	Debug          bool
}

// DefaultConfig returns the recommended configuration, mirroring the
// teacher's DefaultSymbolIndexerConfig.
func DefaultConfig() Config {
	return Config{MaxCachedFiles: 1000, Debug: false}
}

// Stats reports index health.
type Stats struct {
	IndexedFiles int
	TotalSymbols int
	CachedFiles  int
	CacheHits    int64
	CacheMisses  int64
	Evictions    int64
}

// Index is the sole shared mutable resource of a workspace. All operations
// are safe for concurrent use; the bulk scan path in pkg/workspace is the
// only place this matters in practice, since resolution itself is
// single-threaded cooperative.
type Index struct {
	mu sync.RWMutex

	symbolsByFile map[extractor.FileID][]*extractor.Symbol
	fileOrder     []extractor.FileID // insertion order, for stable AllSymbols iteration

	byQualified map[string]*extractor.Symbol
	bySimple    map[string][]*extractor.Symbol
	reverse     map[string][]ReferenceSite

	visibilityCache map[string]*VisibilityMap
	visibilityReady bool

	fileCache *lru.Cache[extractor.FileID, []*extractor.Symbol]

	cacheHits   int64
	cacheMisses int64
	evictions   int64

	config Config
	logger *slog.Logger
}

// New creates an empty Index.
func New(cfg Config, logger *slog.Logger) *Index {
	if cfg.MaxCachedFiles == 0 {
		cfg.MaxCachedFiles = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	idx := &Index{
		symbolsByFile:   map[extractor.FileID][]*extractor.Symbol{},
		byQualified:     map[string]*extractor.Symbol{},
		bySimple:        map[string][]*extractor.Symbol{},
		reverse:         map[string][]ReferenceSite{},
		visibilityCache: map[string]*VisibilityMap{},
		config:          cfg,
		logger:          logger,
	}
	cache, err := lru.NewWithEvict[extractor.FileID, []*extractor.Symbol](cfg.MaxCachedFiles, func(fid extractor.FileID, _ []*extractor.Symbol) {
		idx.evictions++
	})
	if err != nil {
		panic("index: invalid LRU cache size")
	}
	idx.fileCache = cache
	return idx
}

// AddFile replaces fileID's entire symbol slice atomically and invalidates
// the visibility cache.
func (idx *Index) AddFile(fileID extractor.FileID, symbols []*extractor.Symbol) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeFileLocked(fileID)

	if _, existed := idx.symbolsByFile[fileID]; !existed {
		idx.fileOrder = append(idx.fileOrder, fileID)
	}
	idx.symbolsByFile[fileID] = symbols

	for _, sym := range symbols {
		idx.byQualified[sym.QualifiedName] = sym
		names := []string{sym.Name}
		if sym.HasShortName {
			names = append(names, sym.ShortName)
		}
		for _, n := range names {
			if n == "" {
				continue
			}
			idx.bySimple[n] = append(idx.bySimple[n], sym)
		}
		for _, ref := range sym.TypeRefs {
			idx.indexReverse(sym.QualifiedName, fileID, ref)
		}
	}

	idx.fileCache.Add(fileID, symbols)
	idx.invalidateVisibilityLocked()
	idx.logger.Debug("index: file added", "file", int(fileID), "symbols", len(symbols))
}

func (idx *Index) indexReverse(fromQN string, fileID extractor.FileID, ref extractor.TypeRef) {
	for _, part := range ref.Parts {
		if part.Target == "" {
			continue
		}
		idx.reverse[part.Target] = append(idx.reverse[part.Target], ReferenceSite{
			FromQualifiedName: fromQN, File: fileID, Kind: int(ref.Kind),
		})
	}
}

// RemoveFile drops fileID's slice and invalidates the visibility cache.
func (idx *Index) RemoveFile(fileID extractor.FileID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeFileLocked(fileID)
	idx.fileCache.Remove(fileID)
	idx.invalidateVisibilityLocked()
}

func (idx *Index) removeFileLocked(fileID extractor.FileID) {
	old, ok := idx.symbolsByFile[fileID]
	if !ok {
		return
	}
	for _, sym := range old {
		delete(idx.byQualified, sym.QualifiedName)
		idx.removeSimple(sym.Name, sym)
		if sym.HasShortName {
			idx.removeSimple(sym.ShortName, sym)
		}
		for _, ref := range sym.TypeRefs {
			for _, part := range ref.Parts {
				idx.removeReverse(part.Target, sym.QualifiedName)
			}
		}
	}
	delete(idx.symbolsByFile, fileID)
	for i, f := range idx.fileOrder {
		if f == fileID {
			idx.fileOrder = append(idx.fileOrder[:i], idx.fileOrder[i+1:]...)
			break
		}
	}
}

func (idx *Index) removeSimple(name string, sym *extractor.Symbol) {
	if name == "" {
		return
	}
	list := idx.bySimple[name]
	out := list[:0]
	for _, s := range list {
		if s != sym {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		delete(idx.bySimple, name)
	} else {
		idx.bySimple[name] = out
	}
}

func (idx *Index) removeReverse(target, fromQN string) {
	list := idx.reverse[target]
	out := list[:0]
	for _, site := range list {
		if site.FromQualifiedName != fromQN {
			out = append(out, site)
		}
	}
	if len(out) == 0 {
		delete(idx.reverse, target)
	} else {
		idx.reverse[target] = out
	}
}

// LookupQualified is an exact, O(1) lookup.
func (idx *Index) LookupQualified(qn string) (*extractor.Symbol, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	s, ok := idx.byQualified[qn]
	return s, ok
}

// LookupSimple returns every symbol whose name or short name equals name,
// in stable document order across files.
func (idx *Index) LookupSimple(name string) []*extractor.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]*extractor.Symbol(nil), idx.bySimple[name]...)
}

// LookupDefinition is LookupQualified restricted to definition kinds.
func (idx *Index) LookupDefinition(qn string) (*extractor.Symbol, bool) {
	s, ok := idx.LookupQualified(qn)
	if !ok || !s.Kind.IsDefinition() {
		return nil, false
	}
	return s, true
}

// SymbolsInFile iterates a file's symbols in document order.
func (idx *Index) SymbolsInFile(fileID extractor.FileID) []*extractor.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]*extractor.Symbol(nil), idx.symbolsByFile[fileID]...)
}

// AllSymbols returns every symbol across all files, in file-insertion order
// and then document order within each file — the canonical "document
// order" the view applicator and reverse-reference lookups rely on.
func (idx *Index) AllSymbols() []*extractor.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []*extractor.Symbol
	for _, fid := range idx.fileOrder {
		out = append(out, idx.symbolsByFile[fid]...)
	}
	return out
}

// ReverseReferences returns every reference site naming qn.
func (idx *Index) ReverseReferences(qn string) []ReferenceSite {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]ReferenceSite(nil), idx.reverse[qn]...)
}

// GetVisibility returns the cached VisibilityMap for scope, if built.
func (idx *Index) GetVisibility(scope string) (*VisibilityMap, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	vm, ok := idx.visibilityCache[scope]
	return vm, ok
}

// SetVisibility stores a freshly-built VisibilityMap for scope.
func (idx *Index) SetVisibility(scope string, vm *VisibilityMap) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.visibilityCache[scope] = vm
}

// VisibilityReady reports whether EnsureVisibilityMaps has completed since
// the last invalidation.
func (idx *Index) VisibilityReady() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.visibilityReady
}

// MarkVisibilityReady is called by pkg/visibility once the fixpoint has
// converged for every scope.
func (idx *Index) MarkVisibilityReady() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.visibilityReady = true
}

func (idx *Index) invalidateVisibilityLocked() {
	idx.visibilityCache = map[string]*VisibilityMap{}
	idx.visibilityReady = false
}

// InvalidateVisibility drops the entire visibility cache. AddFile/RemoveFile
// already do this; this is exposed for callers that want to force a rebuild
// without touching files.
func (idx *Index) InvalidateVisibility() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.invalidateVisibilityLocked()
}

// Stats reports current index health.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	total := 0
	for _, syms := range idx.symbolsByFile {
		total += len(syms)
	}
	return Stats{
		IndexedFiles: len(idx.symbolsByFile),
		TotalSymbols: total,
		CachedFiles:  idx.fileCache.Len(),
		CacheHits:    idx.cacheHits,
		CacheMisses:  idx.cacheMisses,
		Evictions:    idx.evictions,
	}
}

// Touch bumps the LRU cache's recency for fileID and updates hit/miss
// counters.
func (idx *Index) Touch(fileID extractor.FileID) ([]*extractor.Symbol, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	syms, ok := idx.fileCache.Get(fileID)
	if ok {
		idx.cacheHits++
	} else {
		idx.cacheMisses++
	}
	return syms, ok
}
