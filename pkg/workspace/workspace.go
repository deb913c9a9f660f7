// Package workspace owns the symbol index for one analysis session: it
// wires Extractor → Index → Visibility/Resolver, exposes the file-edit API
// consumed by the IDE and protocol layers, and adds bulk scanning,
// incremental file watching, and standard-library loading.
package workspace

import (
	"log/slog"
	"sync"

	"github.com/kermlsem/kermlsem/pkg/cst"
	"github.com/kermlsem/kermlsem/pkg/diagnostics"
	"github.com/kermlsem/kermlsem/pkg/extractor"
	"github.com/kermlsem/kermlsem/pkg/ide"
	"github.com/kermlsem/kermlsem/pkg/index"
	"github.com/kermlsem/kermlsem/pkg/resolver"
	"github.com/kermlsem/kermlsem/pkg/visibility"
)

// Workspace owns one session's index and the path↔FileID mapping needed to
// translate the editor-facing path-based API into the index's dense-integer
// FileID space.
type Workspace struct {
	mu     sync.RWMutex
	idx    *index.Index
	vis    *visibility.Engine
	res    *resolver.Resolver
	logger *slog.Logger

	pathToFile map[string]extractor.FileID
	fileToPath map[extractor.FileID]string
	nextFileID extractor.FileID
	trees      map[extractor.FileID]*cst.Tree

	extractor *extractor.Extractor
}

// New constructs an empty Workspace. A nil logger defaults to slog.Default().
func New(cfg index.Config, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	idx := index.New(cfg, logger)
	vis := visibility.New(idx, logger)
	ws := &Workspace{
		idx:        idx,
		vis:        vis,
		res:        resolver.New(idx, vis),
		logger:     logger,
		pathToFile: map[string]extractor.FileID{},
		fileToPath: map[extractor.FileID]string{},
		trees:      map[extractor.FileID]*cst.Tree{},
		extractor:  extractor.NewExtractor(logger),
	}
	return ws
}

// Index exposes the underlying index for components (diagnostics, view,
// interchange) that need read access beyond the path-based API.
func (w *Workspace) Index() *index.Index { return w.idx }

// fileIDFor returns path's FileID, minting a new one on first sight. Caller
// must hold w.mu for writing.
func (w *Workspace) fileIDFor(path string) extractor.FileID {
	if id, ok := w.pathToFile[path]; ok {
		return id
	}
	w.nextFileID++
	id := w.nextFileID
	w.pathToFile[path] = id
	w.fileToPath[id] = path
	return id
}

// SetFileContent adds or replaces path's content, re-extracting symbols and
// invalidating downstream visibility/resolution state. Parse errors are
// returned but never prevent indexing of whatever the parser did recover: a
// half-typed file still gets the best symbol set the parser could produce.
func (w *Workspace) SetFileContent(path string, text []byte) []cst.ParseError {
	w.mu.Lock()
	defer w.mu.Unlock()

	fileID := w.fileIDFor(path)
	tree := cst.Parse(text)
	w.trees[fileID] = tree

	presets := w.presetsFor(fileID)
	symbols := w.extractor.Extract(fileID, tree, presets)
	w.idx.AddFile(fileID, symbols)

	w.logger.Debug("file content set", "path", path, "symbols", len(symbols), "parse_errors", len(tree.Errors))
	return tree.Errors
}

// presetsFor builds an ElementId preset map from a file's current symbols
// before re-extraction, so edits that don't rename anything keep stable
// ElementIds, not just across interchange round-trips.
func (w *Workspace) presetsFor(fileID extractor.FileID) extractor.PresetElementIDs {
	existing := w.idx.SymbolsInFile(fileID)
	if len(existing) == 0 {
		return nil
	}
	presets := make(extractor.PresetElementIDs, len(existing))
	for _, sym := range existing {
		presets[sym.QualifiedName] = sym.ElementID
	}
	return presets
}

// RemoveFile removes path from the workspace entirely.
func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fileID, ok := w.pathToFile[path]
	if !ok {
		return
	}
	w.idx.RemoveFile(fileID)
	delete(w.pathToFile, path)
	delete(w.fileToPath, fileID)
	delete(w.trees, fileID)
	w.logger.Debug("file removed", "path", path)
}

// ResolveAll recomputes visibility and fills every TypeRef's resolved
// target across the whole workspace. Call after a batch of edits (initial
// scan, or a burst of watched changes) rather than after every single
// SetFileContent, since it is a whole-index fixpoint.
func (w *Workspace) ResolveAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.idx.InvalidateVisibility()
	w.res.ResolveAllTypeRefs()
}

// CheckFile runs semantic diagnostics over one file's symbols.
func (w *Workspace) CheckFile(path string) []diagnostics.Diagnostic {
	w.mu.RLock()
	fileID, ok := w.pathToFile[path]
	w.mu.RUnlock()
	if !ok {
		return nil
	}
	return diagnostics.CheckFile(w.idx, fileID)
}

func (w *Workspace) fileID(path string) (extractor.FileID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.pathToFile[path]
	return id, ok
}

// Hover answers a hover request at (line, col) in path.
func (w *Workspace) Hover(path string, line, col int) *ide.HoverResult {
	fileID, ok := w.fileID(path)
	if !ok {
		return nil
	}
	return ide.Hover(w.idx, fileID, line, col)
}

// GotoDefinition answers a goto-definition request.
func (w *Workspace) GotoDefinition(path string, line, col int) []ide.GotoTarget {
	fileID, ok := w.fileID(path)
	if !ok {
		return nil
	}
	return ide.GotoDefinition(w.idx, fileID, line, col)
}

// GotoTypeDefinition answers a goto-type-definition request.
func (w *Workspace) GotoTypeDefinition(path string, line, col int) []ide.GotoTarget {
	fileID, ok := w.fileID(path)
	if !ok {
		return nil
	}
	return ide.GotoTypeDefinition(w.idx, fileID, line, col)
}

// FindReferences answers a find-references request.
func (w *Workspace) FindReferences(path string, line, col int, includeDeclaration bool) []ide.Reference {
	fileID, ok := w.fileID(path)
	if !ok {
		return nil
	}
	return ide.FindReferences(w.idx, fileID, line, col, includeDeclaration)
}

// Completions answers a completion request.
func (w *Workspace) Completions(path string, line, col int) []ide.CompletionItem {
	fileID, ok := w.fileID(path)
	if !ok {
		return nil
	}
	return ide.Completions(w.idx, fileID, line, col)
}

// DocumentLinks answers a document-links request.
func (w *Workspace) DocumentLinks(path string) []ide.DocumentLink {
	fileID, ok := w.fileID(path)
	if !ok {
		return nil
	}
	return ide.DocumentLinks(w.idx, fileID)
}

// InlayHints answers an inlay-hints request over path's resolved symbols.
func (w *Workspace) InlayHints(path string) []ide.InlayHint {
	fileID, ok := w.fileID(path)
	if !ok {
		return nil
	}
	return ide.InlayHints(w.idx, fileID)
}

// FoldingRanges answers a folding-ranges request over path's parsed tree.
func (w *Workspace) FoldingRanges(path string) []ide.FoldingRange {
	w.mu.RLock()
	fileID, ok := w.pathToFile[path]
	tree := w.trees[fileID]
	w.mu.RUnlock()
	if !ok || tree == nil {
		return nil
	}
	return ide.FoldingRanges(tree)
}

// SemanticTokens answers a semantic-tokens request over path's parsed tree.
func (w *Workspace) SemanticTokens(path string) []ide.SemanticToken {
	w.mu.RLock()
	fileID, ok := w.pathToFile[path]
	tree := w.trees[fileID]
	w.mu.RUnlock()
	if !ok || tree == nil {
		return nil
	}
	return ide.SemanticTokens(tree)
}

// PathOf returns the path a FileID was minted for, or "" if unknown. Used
// by callers (protocol layer, interchange export) translating index-level
// results back to editor-facing paths.
func (w *Workspace) PathOf(fileID extractor.FileID) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	path, ok := w.fileToPath[fileID]
	return path, ok
}

// Files lists every path currently tracked by the workspace.
func (w *Workspace) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.pathToFile))
	for p := range w.pathToFile {
		paths = append(paths, p)
	}
	return paths
}
