// Package dag orders modules by their resolved require edges.
package dag

import (
	"fmt"
	"slices"
	"strings"

	"jsfront/internal/diag"
	"jsfront/internal/source"
)

// Edge is one resolved require: From's call at Span loads To.
type Edge struct {
	From source.FileID
	To   source.FileID
	Span source.Span
}

// Graph holds require edges over dense module ids 0..n-1.
type Graph struct {
	Edges [][]source.FileID // Edges[from] = sorted, deduplicated targets
	Indeg []int
	Self  []Edge // self-requires, kept out of Edges
}

// BuildGraph collects edges for n modules. Edges pointing outside [0, n)
// are dropped.
func BuildGraph(n int, edges []Edge) Graph {
	g := Graph{
		Edges: make([][]source.FileID, n),
		Indeg: make([]int, n),
	}
	for _, e := range edges {
		if int(e.From) >= n || int(e.To) >= n {
			continue
		}
		if e.From == e.To {
			g.Self = append(g.Self, e)
			continue
		}
		if slices.Contains(g.Edges[e.From], e.To) {
			continue
		}
		g.Edges[e.From] = append(g.Edges[e.From], e.To)
		g.Indeg[e.To]++
	}
	for i := range g.Edges {
		slices.Sort(g.Edges[i])
	}
	return g
}

// ReportCycles emits one warning per module the sort could not place.
// CommonJS tolerates cycles, but a module in one observes a partially
// initialized exports object.
func ReportCycles(fs *source.FileSet, topo *Topo, reporterFor func(source.FileID) diag.Reporter) {
	if !topo.Cyclic {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, moduleName(fs, id))
	}
	summary := strings.Join(names, ", ")
	for _, id := range topo.Cycles {
		r := reporterFor(id)
		if r == nil {
			continue
		}
		msg := fmt.Sprintf("module %q is part of or depends on a require cycle: %s", moduleName(fs, id), summary)
		r.Report(diag.ProjRequireCycle, diag.SevWarning, source.Span{File: id}, msg, nil)
	}
}

func moduleName(fs *source.FileSet, id source.FileID) string {
	if fs != nil {
		if f := fs.Get(id); f != nil {
			return f.Module
		}
	}
	return fmt.Sprintf("<file %d>", id)
}
