package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/edsrzf/mmap-go"
)

// ScanOptions controls a bulk workspace scan: include/exclude glob lists
// plus a worker-count knob.
type ScanOptions struct {
	IncludeGlobs []string
	ExcludeGlobs []string
	NumWorkers   int
	// MmapThreshold is the file size (bytes) at or above which a file is
	// read via mmap rather than os.ReadFile; the mapped bytes are copied
	// into a fresh slice before the mapping is released.
	MmapThreshold int64
}

// DefaultScanOptions always returns a populated struct.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		IncludeGlobs:  []string{"**/*.kerml", "**/*.sysml"},
		ExcludeGlobs:  []string{"**/node_modules/**", "**/.git/**"},
		NumWorkers:    8,
		MmapThreshold: 1 << 20, // 1MiB
	}
}

// ScanStats summarizes a completed scan.
type ScanStats struct {
	FilesScanned int
	FilesFailed  int
	TotalSymbols int
}

// ScanProgress is invoked after each file completes, for a caller-supplied
// progress indicator (e.g. a CLI spinner).
type ScanProgress func(done, total int, path string)

// fileJob/fileResult are the worker pool's job/result shape: a buffered job
// channel feeding a fixed worker count, with a separate results channel the
// caller drains.
type fileJob struct {
	path string
}

type fileResult struct {
	path    string
	symbols int
	err     error
}

// ScanDirectory walks root, matching files against opts' include/exclude
// globs, and loads every match into w via SetFileContent. Files are read by
// opts.NumWorkers goroutines in parallel; parsing, extraction and insertion
// into the index all happen inside SetFileContent, which holds the
// workspace lock, so they run one file at a time.
func (w *Workspace) ScanDirectory(root string, opts ScanOptions, progress ScanProgress) (ScanStats, error) {
	paths, err := discoverFiles(root, opts)
	if err != nil {
		return ScanStats{}, fmt.Errorf("workspace: scan %s: %w", root, err)
	}

	numWorkers := opts.NumWorkers
	if numWorkers <= 0 {
		numWorkers = 1
	}

	jobs := make(chan fileJob, numWorkers*2)
	results := make(chan fileResult, numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- w.scanOne(job.path, opts)
			}
		}()
	}

	go func() {
		for _, p := range paths {
			jobs <- fileJob{path: p}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var stats ScanStats
	done := 0
	for res := range results {
		done++
		if res.err != nil {
			stats.FilesFailed++
			w.logger.Warn("scan: file failed", "path", res.path, "error", res.err)
		} else {
			stats.FilesScanned++
			stats.TotalSymbols += res.symbols
		}
		if progress != nil {
			progress(done, len(paths), res.path)
		}
	}

	w.ResolveAll()
	return stats, nil
}

// scanOne reads and indexes a single file. Extraction panics are not
// recovered here; a malformed file surfaces as parse errors, not a crash,
// so the only failure mode left is an I/O error.
func (w *Workspace) scanOne(path string, opts ScanOptions) fileResult {
	content, err := readFile(path, opts.MmapThreshold)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	errs := w.SetFileContent(path, content)
	symbolCount := 0
	if fileID, ok := w.fileID(path); ok {
		symbolCount = len(w.idx.SymbolsInFile(fileID))
	}
	if len(errs) > 0 {
		w.logger.Debug("scan: parse errors", "path", path, "count", len(errs))
	}
	return fileResult{path: path, symbols: symbolCount}
}

// readFile reads path whole for small files, and via mmap for files at or
// above threshold.
func readFile(path string, threshold int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 || info.Size() < threshold {
		return os.ReadFile(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return os.ReadFile(path)
	}
	defer m.Unmap()

	out := make([]byte, len(m))
	copy(out, m)
	return out, nil
}

// discoverFiles walks root, returning every path matching opts'
// IncludeGlobs and none of opts' ExcludeGlobs (doublestar patterns,
// evaluated relative to root).
func discoverFiles(root string, opts ScanOptions) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range opts.ExcludeGlobs {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return nil
			}
		}
		for _, pattern := range opts.IncludeGlobs {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				matches = append(matches, path)
				return nil
			}
		}
		return nil
	})
	return matches, err
}
