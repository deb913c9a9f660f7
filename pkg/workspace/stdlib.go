package workspace

import (
	"embed"
	"fmt"
	"io/fs"
)

// embeddedStdlib is the bundled KerML/SysML prelude, embedded at build time.
//
//go:embed stdlib/*.kerml stdlib/*.sysml
var embeddedStdlib embed.FS

// DefaultStdlib returns the bundled prelude filesystem, rooted so its
// entries read as "Base.kerml", "ScalarValues.sysml", etc.
func DefaultStdlib() fs.FS {
	sub, err := fs.Sub(embeddedStdlib, "stdlib")
	if err != nil {
		panic("workspace: embedded stdlib missing: " + err.Error())
	}
	return sub
}

// LoadStdlib loads every .kerml/.sysml file in fsys into the workspace: the
// files' top-level package declarations become visible to every user file
// via the index's root scope, the same as any other package once indexed —
// there is no separate mechanism, loading a stdlib file is simply loading a
// file like any other, earlier in the session than user files.
func (w *Workspace) LoadStdlib(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("workspace: read stdlib: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !isSourceFile(name) {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("workspace: read stdlib file %s: %w", name, err)
		}
		w.SetFileContent("stdlib://"+name, content)
		loaded++
	}

	w.ResolveAll()
	w.logger.Info("stdlib loaded", "files", loaded)
	return nil
}
