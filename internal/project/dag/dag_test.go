package dag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"jsfront/internal/diag"
	"jsfront/internal/source"
)

func TestToposortDependenciesFirst(t *testing.T) {
	// 0 requires 1 and 2, 1 requires 2
	g := BuildGraph(4, []Edge{{From: 0, To: 1}, {From: 0, To: 2}, {From: 1, To: 2}, {From: 0, To: 1}, {From: 3, To: 3}, {From: 0, To: 9}})
	if len(g.Self) != 1 || g.Indeg[1] != 1 || g.Indeg[2] != 2 {
		t.Fatalf("graph = %+v", g)
	}
	topo := ToposortKahn(g)
	if topo.Cyclic {
		t.Fatalf("unexpected cycle: %v", topo.Cycles)
	}
	want := [][]source.FileID{{2, 3}, {1}, {0}}
	if diff := cmp.Diff(want, topo.Batches); diff != "" {
		t.Fatalf("batches (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]source.FileID{2, 3, 1, 0}, topo.Order); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestReportCycles(t *testing.T) {
	fs := source.NewFileSet()
	a := fs.Add("a.js.json", nil, 0)
	b := fs.Add("b.js.json", nil, 0)
	c := fs.Add("c.js.json", nil, 0)

	topo := ToposortKahn(BuildGraph(3, []Edge{{From: a, To: b}, {From: b, To: a}, {From: c, To: a}}))
	if !topo.Cyclic {
		t.Fatalf("cycle not detected")
	}
	if diff := cmp.Diff([]source.FileID{a, b, c}, topo.Cycles); diff != "" {
		t.Fatalf("cycles (-want +got):\n%s", diff)
	}

	bag := diag.NewBag(0)
	ReportCycles(fs, topo, func(source.FileID) diag.Reporter { return diag.BagReporter{Bag: bag} })
	if bag.Len() != 3 || bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("reported %d diagnostics", bag.Len())
	}
	if bag.Items()[0].Code != diag.ProjRequireCycle {
		t.Fatalf("code = %v", bag.Items()[0].Code)
	}
}
