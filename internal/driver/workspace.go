// Package driver runs the resolver over a set of ESTree dumps: it loads the
// files, resolves every module in parallel, orders modules by their
// requires and summarizes the results.
package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"jsfront/internal/project"
	"jsfront/internal/source"
	"jsfront/internal/trace"
)

// Workspace is the loaded input of one run. It is read-only once Load
// returns.
type Workspace struct {
	Files *source.FileSet
	Index *project.ModuleIndex
	// Base is the directory module paths are relative to.
	Base string
	// files that could not be read, registered empty so diagnostics have a path
	failed map[source.FileID]error
}

// LoadError returns the read error of id, nil when the file loaded.
func (w *Workspace) LoadError(id source.FileID) error {
	return w.failed[id]
}

// Modules lists the module paths of every registered file in id order.
func (w *Workspace) Modules() []string {
	files := w.Files.Files()
	out := make([]string, len(files))
	for i := range files {
		out[i] = files[i].Module
	}
	return out
}

// ListDumps expands paths into ESTree dump files: directories are walked
// for *.json, files are taken as given. The result is sorted and
// deduplicated.
func ListDumps(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, source.ModuleSuffix) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Load reads the dumps at paths and indexes them. Module paths are the
// file paths relative to base, minus ".json"; files outside base keep
// their path as given. A file that cannot be read is still registered and
// reported later by ResolveAll.
func Load(ctx context.Context, base string, paths []string, extensions []string) (*Workspace, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "load", trace.ParentID(ctx))
	defer span.End("")

	w := &Workspace{
		Files:  source.NewFileSet(),
		Base:   base,
		failed: make(map[source.FileID]error),
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := moduleName(base, p)
		if _, err := w.Files.LoadAs(p, name); err != nil {
			id := w.Files.AddVirtual(name, nil)
			w.failed[id] = err
		}
	}

	loaded := make([]source.File, 0, w.Files.Len())
	for _, f := range w.Files.Files() {
		if _, bad := w.failed[f.ID]; !bad {
			loaded = append(loaded, f)
		}
	}
	w.Index = project.NewModuleIndex(loaded, extensions)
	span.WithExtra("files", strconv.Itoa(w.Files.Len()))
	return w, nil
}

func moduleName(base, p string) string {
	if base == "" {
		return p
	}
	absBase, err1 := filepath.Abs(base)
	absPath, err2 := filepath.Abs(p)
	if err1 != nil || err2 != nil {
		return p
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}
