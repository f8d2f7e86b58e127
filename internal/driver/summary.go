package driver

import (
	"context"
	"encoding/binary"
	"slices"
	"strings"

	"jsfront/internal/diag"
	"jsfront/internal/project"
	"jsfront/internal/sema"
	"jsfront/internal/source"
)

// summarySchema changes whenever Summary or the way it is computed does.
const summarySchema uint16 = 1

// Summary is the cacheable digest of one resolved module.
type Summary struct {
	Schema     uint16         `msgpack:"schema" json:"-"`
	Module     string         `msgpack:"module" json:"module"`
	Functions  int            `msgpack:"functions" json:"functions"`
	Scopes     int            `msgpack:"scopes" json:"scopes"`
	Decls      int            `msgpack:"decls" json:"decls"`
	Idents     int            `msgpack:"idents" json:"idents"`
	Requires   int            `msgpack:"requires" json:"requires"`
	Kinds      map[string]int `msgpack:"kinds" json:"kinds"`
	Globals    []string       `msgpack:"globals" json:"globals"`
	Undeclared []string       `msgpack:"undeclared" json:"undeclared"`
	// Errors and Warnings count the module's own diagnostics; require
	// cycle warnings depend on other modules and are left out.
	Errors   int  `msgpack:"errors" json:"errors"`
	Warnings int  `msgpack:"warnings" json:"warnings"`
	Failed   bool `msgpack:"failed" json:"failed"`
}

// Summarize condenses m.
func Summarize(m *ModuleResult) Summary {
	s := Summary{Schema: summarySchema, Module: m.Module, Failed: m.Err != nil}
	for _, d := range m.Bag.Items() {
		if d.Code == diag.ProjRequireCycle {
			continue
		}
		switch d.Severity {
		case diag.SevError:
			s.Errors++
		case diag.SevWarning:
			s.Warnings++
		}
	}
	sc := m.Sema
	if sc == nil {
		return s
	}
	s.Functions = sc.NumFunctions()
	s.Scopes = sc.NumScopes()
	s.Decls = sc.NumDecls()
	s.Idents = len(sc.AllIdentDecls())
	s.Requires = len(sc.AllRequires())
	s.Kinds = make(map[string]int)
	for _, d := range sc.AllDecls() {
		s.Kinds[d.Kind.String()]++
		switch d.Kind {
		case sema.DeclGlobalProperty:
			s.Globals = append(s.Globals, m.Strings.Name(d.Name))
		case sema.DeclUndeclaredGlobalProperty:
			s.Undeclared = append(s.Undeclared, m.Strings.Name(d.Name))
		}
	}
	slices.Sort(s.Globals)
	slices.Sort(s.Undeclared)
	return s
}

// SummaryKey is the cache key of f's summary. Besides the content it
// covers the module's own path, the set of module paths requires can
// resolve against and the arena limits.
func SummaryKey(w *Workspace, f *source.File, limits sema.Limits) project.Digest {
	var fixed [14]byte
	binary.LittleEndian.PutUint16(fixed[0:], summarySchema)
	binary.LittleEndian.PutUint32(fixed[2:], limits.Decls)
	binary.LittleEndian.PutUint32(fixed[6:], limits.Scopes)
	binary.LittleEndian.PutUint32(fixed[10:], limits.Functions)
	modules := w.Modules()
	slices.Sort(modules)
	return project.Combine(f.Hash, fixed[:], []byte(f.Module), []byte{0}, []byte(strings.Join(modules, "\x00")))
}

// Summaries returns one summary per module sorted by module path. With a
// cache, modules whose key is present are not resolved again and fresh
// summaries are stored.
func Summaries(ctx context.Context, w *Workspace, opts Options, cache *DiskCache) ([]Summary, error) {
	files := w.Files.Files()
	keys := make(map[source.FileID]project.Digest, len(files))
	cached := make(map[source.FileID]Summary)
	for i := range files {
		f := &files[i]
		if cache == nil || w.LoadError(f.ID) != nil {
			continue
		}
		key := SummaryKey(w, f, opts.Limits)
		keys[f.ID] = key
		var s Summary
		hit, err := cache.Get(key, &s)
		if err == nil && hit {
			cached[f.ID] = s
		}
	}

	out := make([]Summary, 0, len(files))
	for _, s := range cached {
		out = append(out, s)
	}
	if len(cached) < len(files) {
		opts.Filter = func(f *source.File) bool {
			_, ok := cached[f.ID]
			return !ok
		}
		res, err := ResolveAll(ctx, w, opts)
		if err != nil {
			return nil, err
		}
		for _, m := range res.Modules {
			s := Summarize(m)
			if key, ok := keys[m.File]; ok && !s.Failed {
				if err := cache.Put(key, &s); err != nil {
					return nil, err
				}
			}
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b Summary) int { return strings.Compare(a.Module, b.Module) })
	return out, nil
}
